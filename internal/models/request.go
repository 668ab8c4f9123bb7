package models

// UserMetadata is the part of the account holder profile used in exports.
type UserMetadata struct {
	UserID      string `json:"user_id,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

// ExportRequest is built per export call and discarded once the byte stream
// has been produced.
type ExportRequest struct {
	Transactions    []Transaction             `json:"transactions"`
	Classifications map[string]Classification `json:"classifications,omitempty"`
	Bank            string                    `json:"bank"`
	IBAN            string                    `json:"rekeningnummer"`
	User            UserMetadata              `json:"user"`
}

// ClassificationFor returns the classification of t, if one is known.
// Transactions without an ID never have one.
func (r ExportRequest) ClassificationFor(t Transaction) (Classification, bool) {
	if t.ID == "" || r.Classifications == nil {
		return Classification{}, false
	}
	c, ok := r.Classifications[t.ID]
	return c, ok
}
