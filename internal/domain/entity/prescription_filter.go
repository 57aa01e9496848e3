package entity

// PrescriptionFilter is a domain-level filter for the pharmacy pending
// lookup. Used by the usecase layer to avoid coupling with delivery DTOs.
// Name filters are case-insensitive substring matches; Date is an exact
// calendar-day match in YYYY-MM-DD format.
type PrescriptionFilter struct {
	PatientName string
	DoctorName  string
	Date        string
}
