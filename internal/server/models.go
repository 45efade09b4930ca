package server

// ExtraTimeRequest toggles the extra-time flag on the clock.
type ExtraTimeRequest struct {
	Enabled bool
}

type errorResponse struct {
	Message string
}
