package Models

import "gorm.io/gorm"

// Driver is one roster entry. The roster is the authority that free-text
// names from exports are fuzzy-matched against.
type Driver struct {
	gorm.Model
	Name       string `json:"name" gorm:"index"`
	EmployeeID string `json:"employee_id" gorm:"index"`
	HomeZone   string `json:"home_zone"`
	Active     bool   `json:"active" gorm:"default:true"`
}
