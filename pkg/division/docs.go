package division

// swagger:parameters createDivision updateDivision
type _ struct {
	// in: body
	// required: true
	Body DivisionRequest
}
