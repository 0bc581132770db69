package handler

import (
	"routeshare/internal/app/booking"
	"routeshare/internal/app/journey"
	"routeshare/internal/app/message"
	"routeshare/internal/app/realtime"
	"routeshare/internal/app/storage"
	"routeshare/internal/app/user"
	"routeshare/internal/app/vehicle"
	"routeshare/internal/configs"
)

// AppDeps bundles the constructed application components the HTTP handlers need.
type AppDeps struct {
	Gateway        *realtime.Gateway
	Config         *configs.AppConfig
	StorageService storage.StorageService
	Users          *user.Store
	Messages       *message.Store
	Journeys       *journey.Store
	Bookings       *booking.Store
	BookingService *booking.Service
	Vehicles       *vehicle.Store
}
