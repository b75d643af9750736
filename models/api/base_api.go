package apimodels

type ErrorResponse struct {
	Error string `json:"error"` // shown to the user as is
}

func NewError(message string) ErrorResponse {
	return ErrorResponse{
		Error: message,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewMessage(message string) MessageResponse {
	return MessageResponse{
		Message: message,
	}
}

type Pagination struct {
	Limit int `json:"limit" query:"limit"` // Records per page
	Page  int `json:"page" query:"page"`   // Page (1,2,3..)
}

func (r Pagination) GetPage() (page, limit int) {
	page = 1
	limit = 10
	if r.Page > 0 {
		page = r.Page
	}
	if r.Limit > 0 {
		limit = r.Limit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func (r Pagination) GetOffset() int {
	page, limit := r.GetPage()
	return (page - 1) * limit
}

func TotalPages(rowCount int64, limit int) int {
	if limit <= 0 || rowCount <= 0 {
		return 0
	}
	return int((rowCount + int64(limit) - 1) / int64(limit))
}
