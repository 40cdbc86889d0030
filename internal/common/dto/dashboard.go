package dto

import "time"

type DashboardStats struct {
	RecentReportsCount   int64 `json:"recentReportsCount"`
	OpenIncidentsCount   int64 `json:"openIncidentsCount"`
	ActiveWorksitesCount int64 `json:"activeWorksitesCount"`
}

// ActivityItem is one entry of the homepage feed
type ActivityItem struct {
	ID           string    `json:"id"`
	ItemType     string    `json:"itemType"`
	Title        string    `json:"title"`
	ActivityDate time.Time `json:"activityDate"`
	Status       string    `json:"status"`
}

type HomePage struct {
	Stats          DashboardStats `json:"stats"`
	RecentActivity []ActivityItem `json:"recentActivity"`
}

type Recap struct {
	TotalReports     int64 `json:"totalReports"`
	TotalAttachments int64 `json:"totalAttachments"`
	OpenIncidents    int64 `json:"openIncidents"`
}
