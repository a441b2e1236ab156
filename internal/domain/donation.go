package domain

import "time"

type Donation struct {
	Meta
	Amount    string         `json:"amount"`
	CharityID uint           `json:"charityId"`
	DonorID   string         `json:"donorId"`
	Message   string         `json:"message"`
	TxHash    string         `json:"txHash"`
	Status    DonationStatus `json:"status"`
	Category  string         `json:"category"`
	Charity   *Charity       `json:"charity,omitempty"`
}

// Certificate is the NFT donation certificate minted downstream of a
// completed donation. The client only requests issuance and reads results.
type Certificate struct {
	Meta
	DonationID   uint      `json:"donationId"`
	TokenID      string    `json:"tokenId"`
	TokenURI     string    `json:"tokenUri"`
	IssueDate    time.Time `json:"issueDate"`
	MetadataHash string    `json:"metadataHash"`
	TxHash       string    `json:"txHash"`
	ImageURL     string    `json:"imageUrl"`
	Status       string    `json:"status"`
	Donation     *Donation `json:"donation,omitempty"`
}

type CertificateMetadata struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	Amount       string    `json:"amount"`
	Currency     string    `json:"currency"`
	DonatedTo    string    `json:"donatedTo"`
	DonatedBy    string    `json:"donatedBy"`
	DonationDate time.Time `json:"donationDate"`
	IssueDate    time.Time `json:"issueDate"`
	TxHash       string    `json:"txHash"`
	Category     string    `json:"category,omitempty"`
	ImpactArea   string    `json:"impactArea,omitempty"`
}
