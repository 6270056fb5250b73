package dto

// ErrorPayload is the structured error sent with DOCUMENT_LOAD_FAILED.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

func Build400Error(details string) ErrorPayload {
	return ErrorPayload{Code: 400, Message: "Bad Request", Details: details}
}

func Build403Error(details string) ErrorPayload {
	return ErrorPayload{Code: 403, Message: "Forbidden", Details: details}
}

func Build404Error(details string) ErrorPayload {
	return ErrorPayload{Code: 404, Message: "Not Found", Details: details}
}

// Build500Error hides the underlying cause from clients; callers log it.
func Build500Error(details string) ErrorPayload {
	return ErrorPayload{Code: 500, Message: "Server Error", Details: details}
}
