package api

const maxBodySize = 64 * 1024 // 64 KiB

const headerIdempotencyKey = "Idempotency-Key"

// body of DELETE responses and of GET /api/
type messageResponse struct {
	Message string `json:"message"`
}

// body of every error response
type errorResponse struct {
	Detail string `json:"detail"`
}
