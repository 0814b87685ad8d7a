package response

// swagger:parameters createResponse
type _ struct {
	// Create response request body parameter
	// in: body
	// required: true
	Body CreateResponseRequest
}

// swagger:parameters findResponsesByEvent
type _ struct {
	// in: path
	// required: true
	EventID uint `json:"eventId"`
}
