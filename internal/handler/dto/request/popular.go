package request

type ListPopularQuery struct {
	Mode     string `form:"mode" binding:"omitempty,oneof=live stored"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}
