package models

// FeaturePresence reports which interactive features an invitation exposes.
// Presence is inferred, not declared: the document text is scanned for
// markers and existing guest records count as proof of life.
type FeaturePresence struct {
	Attendance   bool `json:"attendance"`
	Guestbook    bool `json:"guestbook"`
	GiftList     bool `json:"giftList"`
	Schedule     bool `json:"schedule"`
	PhotoGallery bool `json:"photoGallery"`
	DressCode    bool `json:"dressCode"`
	LocationMap  bool `json:"locationMap"`
}

// AttendanceSummary aggregates attendance answers for the dashboard.
type AttendanceSummary struct {
	Declined       int `json:"declined"`
	Confirmed      int `json:"confirmed"`
	PlusOne        int `json:"plusOne"`
	WithPartner    int `json:"withPartner"`
	TotalGuests    int `json:"totalGuests"`
	TotalResponses int `json:"totalResponses"`
}

// Dashboard is the owner-facing read model: feature presence plus the raw
// record lists, consumed by an external presentation layer.
type Dashboard struct {
	InvitationID    uint                 `json:"invitationId"`
	Features        FeaturePresence      `json:"features"`
	Attendance      AttendanceSummary    `json:"attendance"`
	Responses       []AttendanceResponse `json:"responses"`
	Gifts           []GiftItem           `json:"gifts"`
	Reservations    []GiftReservation    `json:"reservations"`
	Messages        []GuestbookMessage   `json:"messages"`
	PendingMessages int                  `json:"pendingMessages"`
}
