package docs

// swagger:parameters deleteDivision updateDivision findEvent deleteEvent updateEvent rejectEvent transitionEvent changeEventHandler updateEventHandler
type IdParam struct {
	// in: path
	// required: true
	ID uint `json:"id"`
}

// swagger:response
type Error struct {
	// The error message
	//in: body
	Message string
}

// swagger:response
type File struct {
	// in: body
	File []byte
}
