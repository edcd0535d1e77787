package ads

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"freeshare/internal/app/dto"
	"freeshare/internal/app/handlers/support"
	"freeshare/internal/app/outbox"
	"freeshare/internal/app/policies"
	"freeshare/internal/app/uow"
	"freeshare/internal/domain/ad"
	"freeshare/internal/domain/identity"
)

const CreateAdKey = "ads.create"

type CreateAdCommand struct {
	OwnerID      string
	Title        string
	Description  string
	Category     string
	Images       []string
	LocationName string
	Geo          *dto.GeoPoint
	Tags         []string
	IsStreetFind bool
}

func (CreateAdCommand) Key() string { return CreateAdKey }

func (c CreateAdCommand) Validate() error {
	return identity.ValidateID(c.OwnerID, "owner id")
}

type CreateAdHandler struct {
	factory  uow.UoWFactory
	box      outbox.Outbox
	encoder  outbox.EventEncoder
	geocoder policies.Geocoder
	log      *slog.Logger
	now      func() time.Time
	newID    func() string
}

func NewCreateAdHandler(factory uow.UoWFactory, box outbox.Outbox, geocoder policies.Geocoder, log *slog.Logger) *CreateAdHandler {
	return &CreateAdHandler{
		factory:  factory,
		box:      box,
		encoder:  outbox.JSONEventEncoder{},
		geocoder: geocoder,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (h *CreateAdHandler) Handle(ctx context.Context, cmd CreateAdCommand) (dto.Ad, error) {
	unit, finish, err := support.Unit(ctx, h.factory, uow.TxOptions{})
	if err != nil {
		return dto.Ad{}, err
	}

	geo := geoFromDTO(cmd.Geo)
	locationName := cmd.LocationName
	if geo == nil && locationName != "" && h.geocoder != nil {
		if point, gerr := h.geocoder.Locate(ctx, locationName); gerr == nil {
			geo = &point
		} else {
			h.log.Warn("geocode lookup failed, keeping ad without coordinates",
				"location", locationName, "error", gerr)
		}
	}
	if geo != nil && locationName == "" && h.geocoder != nil {
		if name, gerr := h.geocoder.Reverse(ctx, *geo); gerr == nil {
			locationName = name
		} else {
			h.log.Warn("reverse geocode failed, keeping ad without location name",
				"lat", geo.Lat, "lon", geo.Lon, "error", gerr)
		}
	}

	created, err := ad.New(ad.CreateParams{
		ID:           ad.AdID(h.newID()),
		OwnerID:      cmd.OwnerID,
		Title:        cmd.Title,
		Description:  cmd.Description,
		Category:     cmd.Category,
		Images:       cmd.Images,
		LocationName: locationName,
		Geo:          geo,
		Tags:         cmd.Tags,
		IsStreetFind: cmd.IsStreetFind,
		Now:          h.now(),
	})
	if err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if err := unit.Ads().Save(ctx, created); err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if err := outbox.Drain(ctx, h.box, h.encoder, created); err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return dto.Ad{}, err
	}
	return dto.NewAd(created), nil
}

func geoFromDTO(g *dto.GeoPoint) *ad.GeoPoint {
	if g == nil {
		return nil
	}
	return &ad.GeoPoint{Lat: g.Lat, Lon: g.Lon}
}
