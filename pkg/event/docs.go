package event

// swagger:parameters createEvent
type _ struct {
	// Create event request body parameter
	// in: body
	// required: true
	Body CreateEventRequest
}

// swagger:parameters updateEvent
type _ struct {
	// Update event request body parameter. Multipart requests may carry descriptionImageUrl and eventFileUrls file parts
	// in: body
	// required: true
	Body UpdateEventRequest
}

// swagger:parameters rejectEvent
type _ struct {
	// in: body
	// required: false
	Body RejectEventRequest
}

// swagger:parameters changeEventHandler updateEventHandler
type _ struct {
	// in: body
	// required: true
	Body ChangeHandlerRequest
}

// swagger:parameters transitionEvent
type _ struct {
	// One of accept, confirm, reject-handler, Ditolak, Disetujui or fix
	// in: path
	// required: true
	Kind string `json:"kind"`
}

// swagger:parameters searchEvents
type _ struct {
	// in: path
	// required: true
	Title string `json:"title"`
}
