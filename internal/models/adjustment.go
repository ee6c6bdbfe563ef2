package models

import "time"

// Adjustment is one entry in the manual adjustment log: a signed point delta
// applied to a user outside normal scoring, with audit metadata. The log is
// append-only; entries are never edited or removed.
type Adjustment struct {
	Username     string    `json:"username"`
	PointsChange int       `json:"points_change"`
	Reason       string    `json:"reason"`
	AdminUser    string    `json:"admin_user"`
	Timestamp    time.Time `json:"timestamp"`
}
