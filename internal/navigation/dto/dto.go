package dto

import "github.com/fekuna/omnipos-seller-cms/internal/model"

const RecommendedPages = 6

type ChecklistItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type Overview struct {
	TotalPages      int                    `json:"totalPages"`
	ContentSections int                    `json:"contentSections"`
	PageProgress    int                    `json:"pageProgress"`
	Live            bool                   `json:"live"`
	Checklist       []ChecklistItem        `json:"checklist"`
	SetupProgress   int                    `json:"setupProgress"`
	Pages           []model.NavigationItem `json:"pages"`
	MorePages       int                    `json:"morePages"`
}
