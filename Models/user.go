package Models

import "gorm.io/gorm"

// User is a product login. Permission levels follow the rest of the fleet
// stack: 1 viewer, 2 dispatcher, 3 manager, 4 admin.
type User struct {
	gorm.Model
	Email      string `json:"email" gorm:"uniqueIndex"`
	Name       string `json:"name"`
	Password   []byte `json:"-"`
	Permission int    `json:"permission"`
}
