package transport

// RegisterRequest is the JSON body accepted by POST /users/.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TaskCreateRequest is the JSON body accepted by POST /tasks/.
type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TaskUpdateRequest is the partial JSON body accepted by PUT /tasks/{id}.
// Nil fields leave the stored value untouched.
type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}
