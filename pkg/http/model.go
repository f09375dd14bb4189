package http

// ErrorBody is the JSON body of every error response. Detail carries the
// human-readable message; Errors lists field-level problems when present.
type ErrorBody struct {
	Detail string            `json:"detail" example:"Company not found"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"ticker"`
	Message string                 `json:"message,omitempty" example:"ticker is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// Summary joins the messages of a validation error list.
func Summary(errs []ValidationError) string {
	switch len(errs) {
	case 0:
		return "invalid request"
	case 1:
		return errs[0].Message
	}
	msg := errs[0].Message
	for _, e := range errs[1:] {
		msg += "; " + e.Message
	}
	return msg
}
