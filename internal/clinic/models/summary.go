package models

// Summary counts what the registry currently holds.
type Summary struct {
	Patients        int `json:"patients"`
	Doctors         int `json:"doctors"`
	Appointments    int `json:"appointments"`
	ClinicalRecords int `json:"clinical_records"`
}
