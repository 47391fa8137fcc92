package models

import "github.com/lib/pq"

// Persona is a synthetic customer profile. The ID is caller-assigned (the
// dataset ships its own identifiers), so it is a string primary key rather
// than an autoincrement.
type Persona struct {
	ID                     string         `gorm:"primaryKey;size:64" json:"id" binding:"required"`
	Email                  string         `gorm:"size:255;not null" json:"email"`
	Name                   string         `gorm:"size:255;not null" json:"name"`
	Age                    int            `json:"age"`
	Gender                 string         `gorm:"size:255" json:"gender"`
	Pronouns               string         `gorm:"size:255" json:"pronouns"`
	City                   string         `gorm:"size:255" json:"city"`
	Region                 string         `gorm:"size:255" json:"region"`
	Occupation             string         `gorm:"size:255" json:"occupation"`
	MonthlyIncome          int            `json:"monthly_income"`
	SalaryDay1             int            `gorm:"column:salary_day_1" json:"salary_day_1"`
	SalaryDay2             int            `gorm:"column:salary_day_2" json:"salary_day_2"`
	PrimaryBank            string         `gorm:"size:255" json:"primary_bank"`
	OtherBanks             pq.StringArray `gorm:"type:text[]" json:"other_banks"`
	HasCreditCard          bool           `json:"has_credit_card"`
	EWallets               string         `gorm:"size:255" json:"e_wallets"`
	PreferredChannel       string         `gorm:"size:255" json:"preferred_channel"`
	LanguageStyle          string         `gorm:"size:255" json:"language_style"`
	Goals                  pq.StringArray `gorm:"type:text[]" json:"goals"`
	AntiGoals              pq.StringArray `gorm:"type:text[]" json:"anti_goals"`
	RiskTolerance          string         `gorm:"size:255" json:"risk_tolerance"`
	SavingsGoal            int            `json:"savings_goal"`
	ConsentPersonalization string         `gorm:"size:255" json:"consent_personalization"`
	AccessibilityNeeds     pq.StringArray `gorm:"type:text[]" json:"accessibility_needs"`
	ChurnRisk              string         `gorm:"size:255" json:"churn_risk"`
}
