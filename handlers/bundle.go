package handlers

// HandlerBundle groups the endpoint handlers the router wires up.
type HandlerBundle struct {
	Booking *BookingHandler
	Sales   *SalesHandler
	Villa   *VillaHandler
	Upload  *UploadHandler
	Auth    *AuthHandler
	Admin   *AdminHandler
	Health  *HealthHandler
}
