package server

// MultiplyRequest is the JSON body accepted by POST /multiply.
type MultiplyRequest struct {
	// X and Y are the operands, most significant digit first.
	X []int `json:"x"`
	Y []int `json:"y"`
	// Base defaults to 10 when omitted.
	Base int `json:"base,omitempty"`
	// Algorithm defaults to the schoolbook multiplier when omitted.
	Algorithm string `json:"algorithm,omitempty"`
}

// Response represents the standardized JSON response for a multiplication request.
type Response struct {
	X         []int  `json:"x"`
	Y         []int  `json:"y"`
	Base      int    `json:"base"`
	Algorithm string `json:"algorithm"`
	// Product is omitted if an error occurred.
	Product []int `json:"product,omitempty"`
	// Text is the product written as a numeral, or as colon-separated
	// digits for bases above 36.
	Text string `json:"text,omitempty"`
	// Duration is the formatted execution time string.
	Duration string `json:"duration"`
	// Error contains the error message if the multiplication failed.
	Error string `json:"error,omitempty"`
}

// ErrorResponse represents the standardized JSON response for an API error.
type ErrorResponse struct {
	// Error is the short error code or status text.
	Error string `json:"error"`
	// Message is a descriptive error message.
	Message string `json:"message,omitempty"`
}

// RequestParseError represents a parameter parsing error with HTTP status.
type RequestParseError struct {
	Message    string
	StatusCode int
}

// Error implements the error interface.
func (e RequestParseError) Error() string {
	return e.Message
}
