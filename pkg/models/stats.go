package models

// DashboardStats are the headline counts on the staff dashboard.
type DashboardStats struct {
	OpenViolations       int64 `json:"open_violations"`
	PendingInspections   int64 `json:"pending_inspections"`
	UnresolvedComplaints int64 `json:"unresolved_complaints"`
	ActiveLicenses       int64 `json:"active_licenses"`
}

// MapMarker is an address with coordinates for the map view. OpenWork flags
// whether the address has any unresolved violations or pending inspections.
type MapMarker struct {
	AddressID int64   `json:"address_id"`
	Combadd   *string `json:"combadd"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	OpenWork  bool    `json:"open_work"`
}

// SIRStats are date-windowed counts for the monthly systematic inspection
// report.
type SIRStats struct {
	Start                string `json:"start"`
	End                  string `json:"end"`
	ViolationsCreated    int64  `json:"violations_created"`
	ViolationsResolved   int64  `json:"violations_resolved"`
	CitationsIssued      int64  `json:"citations_issued"`
	InspectionsScheduled int64  `json:"inspections_scheduled"`
	LicensesIssued       int64  `json:"licenses_issued"`
}
