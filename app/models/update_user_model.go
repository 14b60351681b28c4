package models

type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,lte=50"`
	Email    *string `json:"email" validate:"omitempty,email,lte=255"`
}

type UpdatePreferencesRequest struct {
	DailyReminders *bool   `json:"daily_reminders"`
	WeeklyReport   *bool   `json:"weekly_report"`
	Theme          *string `json:"theme" validate:"omitempty,oneof=light dark system"`
}

// Apply overlays the set fields onto p.
func (r UpdatePreferencesRequest) Apply(p Preferences) Preferences {
	if r.DailyReminders != nil {
		p.DailyReminders = *r.DailyReminders
	}
	if r.WeeklyReport != nil {
		p.WeeklyReport = *r.WeeklyReport
	}
	if r.Theme != nil {
		p.Theme = *r.Theme
	}
	return p
}
