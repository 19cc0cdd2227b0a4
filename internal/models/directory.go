package models

// Employee is an HR record in the company directory.
type Employee struct {
	ID         string `json:"_id,omitempty"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Position   string `json:"position"`
	Department string `json:"department"`
	HireDate   string `json:"hireDate"`
	Photo      string `json:"photo"`
	Active     bool   `json:"active"`
}

// Company is a directory record for a partner or agency.
type Company struct {
	ID                 string `json:"_id,omitempty"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registrationNumber"`
	Address            string `json:"address"`
	City               string `json:"city"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	Website            string `json:"website"`
	Logo               string `json:"logo"`
}

// EmployeeHeader is the CSV header matching Employee.Row.
var EmployeeHeader = []string{"ID", "First name", "Last name", "Email", "Phone", "Position", "Department", "Hire date", "Active"}

// Row flattens the employee for CSV export.
func (e Employee) Row() []string {
	active := "no"
	if e.Active {
		active = "yes"
	}
	return []string{e.ID, e.FirstName, e.LastName, e.Email, e.Phone, e.Position, e.Department, e.HireDate, active}
}

// CompanyHeader is the CSV header matching Company.Row.
var CompanyHeader = []string{"ID", "Name", "Registration number", "Address", "City", "Phone", "Email", "Website"}

func (c Company) Row() []string {
	return []string{c.ID, c.Name, c.RegistrationNumber, c.Address, c.City, c.Phone, c.Email, c.Website}
}
