package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name                    string `json:"name"`
	Email                   string `json:"email" gorm:"uniqueIndex"`
	Password                string `json:"-"` // bcrypt hash, never serialize
	AuthenticatorMFAEnabled bool   `json:"authenticator_mfa_enabled" gorm:"default:false"`
	Key                     string `json:"-"` // TOTP secret, never serialize
	EmailMFAEnabled         bool   `json:"email_mfa_enabled" gorm:"default:false"`
	Code                    string `json:"-"` // last issued email OTP, overwritten on each issuance
}
