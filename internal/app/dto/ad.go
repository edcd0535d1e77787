package dto

import (
	"time"

	"freeshare/internal/domain/ad"
)

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Ad struct {
	ID                string    `json:"id"`
	OwnerID           string    `json:"ownerId"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	Images            []string  `json:"images"`
	LocationName      string    `json:"locationName,omitempty"`
	Geo               *GeoPoint `json:"geo,omitempty"`
	Tags              []string  `json:"tags"`
	IsStreetFind      bool      `json:"isStreetFind"`
	IsReserved        bool      `json:"isReserved"`
	ReservedBy        string    `json:"reservedBy,omitempty"`
	ReservationStatus string    `json:"reservationStatus,omitempty"`
	WaitingList       []string  `json:"waitingList"`
	PostedAt          time.Time `json:"postedAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func NewAd(a *ad.Ad) Ad {
	out := Ad{
		ID:                string(a.ID),
		OwnerID:           a.OwnerID,
		Title:             a.Title,
		Description:       a.Description,
		Category:          a.Category,
		Images:            emptyIfNil(a.Images),
		LocationName:      a.LocationName,
		Tags:              emptyIfNil(a.Tags),
		IsStreetFind:      a.IsStreetFind,
		IsReserved:        a.IsReserved,
		ReservedBy:        a.ReservedBy,
		ReservationStatus: string(a.ReservationStatus),
		WaitingList:       emptyIfNil(a.WaitingList),
		PostedAt:          a.PostedAt,
		UpdatedAt:         a.UpdatedAt,
	}
	if a.Geo != nil {
		out.Geo = &GeoPoint{Lat: a.Geo.Lat, Lon: a.Geo.Lon}
	}
	return out
}

func NewAds(ads []*ad.Ad) []Ad {
	out := make([]Ad, 0, len(ads))
	for _, a := range ads {
		out = append(out, NewAd(a))
	}
	return out
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
