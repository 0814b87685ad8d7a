package model

// Status of an Event. The values are stored and returned verbatim and must not be changed since
// existing rows and clients depend on the exact labels.
type Status string

const (
	StatusNeedsVerification          Status = "Perlu Verifikasi"
	StatusVerificationRejected       Status = "Verifikasi Ditolak"
	StatusNeedsRecipientVerification Status = "Butuh Verifikasi Penerima"
	StatusRecipientApproved          Status = "Penerima Setuju"
	StatusRecipientRejected          Status = "Penerima Menolak"
	StatusRejected                   Status = "Ditolak"
	StatusApproved                   Status = "Disetujui"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{
	StatusNeedsVerification,
	StatusVerificationRejected,
	StatusNeedsRecipientVerification,
	StatusRecipientApproved,
	StatusRecipientRejected,
	StatusRejected,
	StatusApproved,
}

func (s Status) Valid() bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}
