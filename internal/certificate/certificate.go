// Package certificate defines credential identity and the deterministic URL
// builders the verification and share flows depend on. A credential ID is the
// only input needed to reconstruct both URLs; everything else here is derived.
package certificate

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tier is the award level of a certification.
type Tier string

const (
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// IsValid reports whether t is a known tier.
func (t Tier) IsValid() bool {
	switch t {
	case TierBronze, TierSilver, TierGold:
		return true
	}
	return false
}

// pendingPrefix marks credentials that are reserved but not yet issued.
// Pending credentials are rejected by the verification, share, and download
// flows.
const pendingPrefix = "PENDING-"

// Certification is the issued credential record. CredentialID is globally
// unique and opaque to consumers.
type Certification struct {
	CredentialID  string    `json:"credential_id"`
	UserID        string    `json:"user_id"`
	Tier          Tier      `json:"tier"`
	RecipientName string    `json:"recipient_name"`
	CourseName    string    `json:"course_name"`
	IssuedAt      time.Time `json:"issued_at"`
	Skills        []string  `json:"skills,omitempty"`
	ExamScore     *float64  `json:"exam_score,omitempty"`
}

// IsPending reports whether credentialID carries the reserved pending prefix.
func IsPending(credentialID string) bool {
	return strings.HasPrefix(credentialID, pendingPrefix)
}

// NewCredentialID mints a credential ID of the form LF-<TIER>-<uuid>.
func NewCredentialID(tier Tier) string {
	return fmt.Sprintf("LF-%s-%s", strings.ToUpper(string(tier)), uuid.NewString())
}

// VerificationURL builds the public verification link for a credential.
// The base URL is injected configuration; trailing slashes are normalized so
// "https://app.example.com" and "https://app.example.com/" produce the same
// result.
func VerificationURL(baseURL, credentialID string) string {
	return strings.TrimRight(baseURL, "/") + "/verify/" + credentialID
}

// ShareParams carries everything LinkedIn's Add-to-Profile flow requires.
// All fields must be set; the receiving service needs every one of them to
// render the share card.
type ShareParams struct {
	CourseName   string
	CredentialID string
	IssuedAt     time.Time
}

// linkedInAddToProfileURL is the entry point of LinkedIn's certification
// Add-to-Profile flow.
const linkedInAddToProfileURL = "https://www.linkedin.com/profile/add"

const issuingOrganization = "LearnFlow"

// LinkedInShareURL builds the Add-to-Profile URL for an issued credential.
// The certificate name is derived from the course name, and certUrl embeds
// the verification URL so LinkedIn viewers land on the public verifier.
func LinkedInShareURL(p ShareParams, baseURL string) string {
	q := url.Values{}
	q.Set("startTask", "CERTIFICATION_NAME")
	q.Set("name", p.CourseName+" Certificate")
	q.Set("organizationName", issuingOrganization)
	q.Set("issueYear", strconv.Itoa(p.IssuedAt.Year()))
	q.Set("issueMonth", strconv.Itoa(int(p.IssuedAt.Month())))
	q.Set("certUrl", VerificationURL(baseURL, p.CredentialID))
	q.Set("certId", p.CredentialID)
	return linkedInAddToProfileURL + "?" + q.Encode()
}
