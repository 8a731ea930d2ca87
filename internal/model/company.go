package model

// CompanyRole is the role a company portal login acts under.
type CompanyRole string

const (
	CompanyOwner      CompanyRole = "Company Owner"
	CompanyAccountant CompanyRole = "Accountant"
)

// Company is a client tenant of the dashboard.
type Company struct {
	ID              string
	Name            string
	Address         string
	Phone           string
	Email           string
	Industry        string
	FinancialYear   string
	LoginID         string
	PasswordHash    string // argon2id encoded, never the plaintext
	AccountantName  string
	AccountantEmail string
	AccountantPhone string
	AccountantRole  string // job title, e.g. "Accountant / Finance Manager"
	CompanyRole     CompanyRole
}

// HasCredentials reports whether a portal login has been configured.
func (c Company) HasCredentials() bool {
	return c.LoginID != "" && c.PasswordHash != ""
}
