package main

import (
	"log"
	"strings"
	"time"

	"personaforge/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MaxSuperusers caps the privileged-account population. The check runs
// under a Postgres advisory lock so the cap holds across concurrent
// requests and across instances sharing the database.
const MaxSuperusers = 2

// superuserLockKey is the advisory-lock key serializing superuser creation.
const superuserLockKey int64 = 0x70657273757065 // "persupe"

// dummyHash is compared against when an operation targets an unknown user,
// so the miss costs the same as a real bcrypt mismatch and timing does not
// reveal whether an account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("personaforge-no-such-user"), bcrypt.DefaultCost)

// normalizeEmail case-folds and trims an address for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) ([]byte, error) {
	if len(password) < 6 { // basic password policy
		return nil, ErrPasswordTooShort
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// UserAttrs are the optional flags accepted at creation time.
type UserAttrs struct {
	IsActive *bool
	IsStaff  *bool
}

// CreateUser registers a regular account. Email uniqueness is enforced by
// the unique index; the pre-check only exists to fail fast.
func CreateUser(email, password string, attrs UserAttrs) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrDuplicateEmail
	}
	user := models.User{Email: email, HashedPassword: hashed, IsActive: true}
	if attrs.IsActive != nil {
		user.IsActive = *attrs.IsActive
	}
	if attrs.IsStaff != nil {
		user.IsStaff = *attrs.IsStaff
	}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race condition after initial check
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &user, nil
}

// CreateSuperuser registers a privileged account, holding the population
// below MaxSuperusers. Count-then-insert runs inside one transaction with
// an advisory lock held, so two concurrent calls cannot both pass the
// count.
func CreateSuperuser(email, password string, attrs UserAttrs) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.User{Email: email, HashedPassword: hashed, IsActive: true, IsStaff: true, IsSuperuser: true}
	if attrs.IsActive != nil {
		user.IsActive = *attrs.IsActive
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", superuserLockKey).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.User{}).Where("is_superuser = ?", true).Count(&count).Error; err != nil {
			return err
		}
		if count >= MaxSuperusers {
			return ErrSuperuserLimit
		}
		if err := tx.Create(&user).Error; err != nil {
			if isUniqueConstraintError(err) {
				return ErrDuplicateEmail
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update. A "password" attribute is re-hashed
// before storage, never stored raw; email is normalized; unknown
// attributes are dropped.
func UpdateUser(id uint, attrs map[string]any) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, ErrUserNotFound
	}
	updates := map[string]any{}
	if raw, ok := attrs["password"]; ok {
		password, _ := raw.(string)
		hashed, err := hashPassword(password)
		if err != nil {
			return nil, err
		}
		updates["hashed_password"] = hashed
	}
	for _, field := range []string{"email", "is_active", "is_staff"} {
		if v, ok := attrs[field]; ok {
			updates[field] = v
		}
	}
	if raw, ok := updates["email"]; ok {
		email, _ := raw.(string)
		email = normalizeEmail(email)
		if email == "" {
			return nil, ErrEmailRequired
		}
		updates["email"] = email
	}
	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			if isUniqueConstraintError(err) {
				return nil, ErrDuplicateEmail
			}
			return nil, err
		}
	}
	if err := db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate resolves a user by email and verifies the password. An
// unknown email and a wrong password return the same error; an inactive
// account is reported separately.
func Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		// burn a hash comparison so the miss is not observable through timing
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return &user, nil
}

// VerifyPassword reports whether candidate matches the stored hash for id.
func VerifyPassword(userID uint, candidate string) bool {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(candidate))
		return false
	}
	return bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(candidate)) == nil
}

// ChangeEmail lets a user change their own login email after re-entering
// the current password. The self-service check runs first and holds even
// if a route-level policy would have allowed the call.
func ChangeEmail(actingID, targetID uint, newEmail, currentPassword string) (*models.User, error) {
	if actingID != targetID {
		return nil, ErrForbidden
	}
	if !VerifyPassword(targetID, currentPassword) {
		return nil, ErrPasswordMismatch
	}
	newEmail = normalizeEmail(newEmail)
	if newEmail == "" {
		return nil, ErrEmailRequired
	}
	var other models.User
	if err := db.Where("email = ? AND id <> ?", newEmail, targetID).First(&other).Error; err == nil {
		return nil, ErrDuplicateEmail
	}
	var user models.User
	if err := db.First(&user, targetID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if err := db.Model(&user).Update("email", newEmail).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	user.Email = newEmail
	return &user, nil
}

// RequestPasswordReset records a single-use reset token for the account
// holding email. The outcome looks the same to the caller whether or not
// the email matched, so the endpoint cannot probe for accounts. Delivery
// of the token is out of band; it is never returned in a response.
func RequestPasswordReset(email string) {
	email = normalizeEmail(email)
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return
	}
	reset := models.PasswordReset{Email: email, UserID: user.ID, Token: uuid.NewString()}
	if err := db.Create(&reset).Error; err != nil {
		log.Printf("password reset: failed to store token: %v", err)
		return
	}
	log.Printf("password reset token issued for user id=%d", user.ID)
}

// ConfirmPasswordReset consumes a reset token and sets a new password.
// Deleting the record and writing the hash happen in one transaction, so a
// token is spent exactly once even under concurrent confirmations.
func ConfirmPasswordReset(token, newPassword string) error {
	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	var reset models.PasswordReset
	if err := db.Where("token = ?", token).First(&reset).Error; err != nil {
		return ErrTokenInvalid
	}
	if time.Since(reset.CreatedAt) > cfg.ResetTokenTTL {
		db.Delete(&models.PasswordReset{}, reset.ID)
		return ErrTokenInvalid
	}
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.PasswordReset{}, reset.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 { // already consumed
			return ErrTokenInvalid
		}
		return tx.Model(&models.User{}).Where("id = ?", reset.UserID).Update("hashed_password", hashed).Error
	})
}
