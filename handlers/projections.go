package handlers

import (
	"time"

	"github.com/anjiri1684/hotel_reservation/models"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type LocationView struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Address string `json:"address"`
}

type GalleryView struct {
	ID        uint      `json:"id"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

type HotelView struct {
	ID          uint         `json:"id"`
	Slug        string       `json:"slug"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Host        uuid.UUID    `json:"host"`
	Location    LocationView `json:"location"`
	CreatedAt   time.Time    `json:"created_at"`
}

type HotelDetailView struct {
	HotelView
	Gallery []GalleryView `json:"gallery"`
}

// RoomView is the read shape: hotel and location are flattened in and the
// numeric id is never exposed.
type RoomView struct {
	UUID        uuid.UUID `json:"uuid"`
	Name        string    `json:"name"`
	RoomType    string    `json:"room_type"`
	Price       float64   `json:"price"`
	Capacity    int       `json:"capacity"`
	Description string    `json:"description"`
	HotelID     uint      `json:"hotel_id"`
	HotelSlug   string    `json:"hotel_slug"`
	HotelName   string    `json:"hotel_name"`
	Host        uuid.UUID `json:"host"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
}

type RoomDetailView struct {
	RoomView
	Gallery []GalleryView `json:"gallery"`
}

// RoomWrittenView echoes the write shape back after create and update.
type RoomWrittenView struct {
	UUID        uuid.UUID `json:"uuid"`
	Hotel       uint      `json:"hotel"`
	Name        string    `json:"name"`
	RoomType    string    `json:"room_type"`
	Price       float64   `json:"price"`
	Capacity    int       `json:"capacity"`
	Description string    `json:"description"`
}

type GalleryCreatedView struct {
	ID        uint       `json:"id"`
	Image     string     `json:"image"`
	Hotel     *string    `json:"hotel"`
	Room      *uuid.UUID `json:"room"`
	CreatedAt time.Time  `json:"created_at"`
}

type ReservationView struct {
	ID        uint      `json:"id"`
	Guest     uuid.UUID `json:"guest"`
	Room      uuid.UUID `json:"room"`
	RoomName  string    `json:"room_name"`
	HotelSlug string    `json:"hotel_slug"`
	HotelName string    `json:"hotel_name"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

func toLocationView(l models.Location) LocationView {
	return LocationView{Country: l.Country, City: l.City, Address: l.Address}
}

func toGalleryViews(items []models.Gallery) []GalleryView {
	out := make([]GalleryView, 0, len(items))
	for _, g := range items {
		out = append(out, GalleryView{ID: g.ID, Image: g.Image, CreatedAt: g.CreatedAt})
	}
	return out
}

func toHotelView(h models.Hotel) HotelView {
	return HotelView{
		ID:          h.ID,
		Slug:        h.Slug,
		Name:        h.Name,
		Description: h.Description,
		Host:        h.HostID,
		Location:    toLocationView(h.Location),
		CreatedAt:   h.CreatedAt,
	}
}

func toHotelDetailView(h models.Hotel) HotelDetailView {
	return HotelDetailView{HotelView: toHotelView(h), Gallery: toGalleryViews(h.Gallery)}
}

func toRoomView(r models.Room) RoomView {
	return RoomView{
		UUID:        r.UUID,
		Name:        r.Name,
		RoomType:    r.RoomType,
		Price:       r.Price,
		Capacity:    r.Capacity,
		Description: r.Description,
		HotelID:     r.HotelID,
		HotelSlug:   r.Hotel.Slug,
		HotelName:   r.Hotel.Name,
		Host:        r.Hotel.HostID,
		City:        r.Hotel.Location.City,
		Country:     r.Hotel.Location.Country,
		Address:     r.Hotel.Location.Address,
		CreatedAt:   r.CreatedAt,
	}
}

func toRoomViews(rooms []models.Room) []RoomView {
	out := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, toRoomView(r))
	}
	return out
}

func toRoomWrittenView(r models.Room) RoomWrittenView {
	return RoomWrittenView{
		UUID:        r.UUID,
		Hotel:       r.HotelID,
		Name:        r.Name,
		RoomType:    r.RoomType,
		Price:       r.Price,
		Capacity:    r.Capacity,
		Description: r.Description,
	}
}

func toReservationView(r models.Reservation) ReservationView {
	return ReservationView{
		ID:        r.ID,
		Guest:     r.GuestID,
		Room:      r.Room.UUID,
		RoomName:  r.Room.Name,
		HotelSlug: r.Room.Hotel.Slug,
		HotelName: r.Room.Hotel.Name,
		StartDate: r.StartDate.Format(dateLayout),
		EndDate:   r.EndDate.Format(dateLayout),
		CreatedAt: r.CreatedAt,
	}
}
