package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/constants"
	classModel "schoolku_backend/internals/features/school/classes/model"
	schoolModel "schoolku_backend/internals/features/school/schools/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	authDTO "schoolku_backend/internals/features/users/auth/dto"
	"schoolku_backend/internals/features/users/auth/service"
	userDTO "schoolku_backend/internals/features/users/user/dto"
	userModel "schoolku_backend/internals/features/users/user/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperr"
	"schoolku_backend/internals/middlewares/auth"
	"schoolku_backend/internals/repository"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// Register — creates the account and, for student/teacher roles, the matching
// academic profile in one transaction. Duplicate email or username surfaces
// as Conflict from the unique indexes.
func (ctl *AuthController) Register(c *fiber.Ctx) error {
	var req authDTO.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := service.ValidatePasswordStrength(req.Password); err != nil {
		return helper.FromError(c, err)
	}

	user := req.ToModel()
	if err := user.SetPassword(req.Password); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}

	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.Find[schoolModel.SchoolModel](tx, req.SchoolID, "School not found"); err != nil {
			return err
		}
		if err := tx.Create(user).Error; err != nil {
			return apperr.FromGorm(err, "")
		}

		today := time.Now().UTC().Truncate(24 * time.Hour)
		switch user.Role {
		case constants.RoleStudent:
			profile := &studentModel.StudentModel{
				UserID:        user.ID,
				AdmissionDate: today,
				Status:        "active",
				SchoolID:      req.SchoolID,
			}
			return apperr.FromGorm(tx.Create(profile).Error, "")
		case constants.RoleTeacher:
			profile := &teacherModel.TeacherModel{
				UserID:   user.ID,
				HireDate: today,
				Status:   "active",
				SchoolID: req.SchoolID,
			}
			return apperr.FromGorm(tx.Create(profile).Error, "")
		}
		return nil
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	pair, err := service.IssueTokens(ctl.DB.WithContext(c.Context()), user, c.Get(fiber.HeaderUserAgent), c.IP())
	if err != nil {
		return helper.FromError(c, err)
	}

	return helper.JsonCreated(c, "Registrasi berhasil", fiber.Map{
		"user":   userDTO.FromModel(user),
		"tokens": pair,
	})
}

// Login — email or username, then password. Deactivated accounts are refused
// even with valid credentials.
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req authDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var user userModel.UserModel
	err := ctl.DB.WithContext(c.Context()).
		Where("email = ? OR user_name = ?", req.Identifier, req.Identifier).
		First(&user).Error
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Email/username atau password salah")
	}
	if !user.CheckPassword(req.Password) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Email/username atau password salah")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Akun dinonaktifkan")
	}

	now := time.Now().UTC()
	if err := ctl.DB.WithContext(c.Context()).Model(&user).
		Update("last_login", now).Error; err == nil {
		user.LastLogin = &now
	}

	pair, err := service.IssueTokens(ctl.DB.WithContext(c.Context()), &user, c.Get(fiber.HeaderUserAgent), c.IP())
	if err != nil {
		return helper.FromError(c, err)
	}

	return helper.JsonOK(c, "Login berhasil", fiber.Map{
		"user":   userDTO.FromModel(&user),
		"tokens": pair,
	})
}

// Refresh rotates the refresh token: the presented token is revoked and a
// fresh pair issued.
func (ctl *AuthController) Refresh(c *fiber.Ctx) error {
	var req authDTO.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	pair, user, err := service.RotateRefresh(ctl.DB.WithContext(c.Context()), req.RefreshToken, c.Get(fiber.HeaderUserAgent), c.IP())
	if err != nil {
		return helper.FromError(c, err)
	}

	return helper.JsonOK(c, "Token diperbarui", fiber.Map{
		"user":   userDTO.FromModel(user),
		"tokens": pair,
	})
}

// Logout revokes every live refresh token of the caller. The access token
// stays valid until it expires; its TTL is short on purpose.
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	if err := service.RevokeAll(ctl.DB.WithContext(c.Context()), id.UserID); err != nil {
		return helper.FromError(c, apperr.FromGorm(err, ""))
	}
	return helper.JsonOK(c, "Logout berhasil", nil)
}

// GetProfile — the caller's account plus the role profile when one exists.
func (ctl *AuthController) GetProfile(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}

	db := ctl.DB.WithContext(c.Context())
	user, err := repository.Find[userModel.UserModel](db, id.UserID, "User not found")
	if err != nil {
		return helper.FromError(c, err)
	}

	resp := fiber.Map{"user": userDTO.FromModel(user)}
	switch user.Role {
	case constants.RoleStudent:
		var profile studentModel.StudentModel
		if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
			resp["student_profile"] = profile
			if profile.CurrentClassID != nil {
				var class classModel.ClassModel
				if err := db.First(&class, *profile.CurrentClassID).Error; err == nil {
					resp["current_class"] = class.FullName()
				}
			}
		}
	case constants.RoleTeacher:
		var profile teacherModel.TeacherModel
		if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
			resp["teacher_profile"] = profile
		}
	}

	return helper.JsonOK(c, "", resp)
}

// UpdateProfile — self-service, allow-listed fields only. A password change
// through here still passes the strength rule.
func (ctl *AuthController) UpdateProfile(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}

	user, err := repository.Find[userModel.UserModel](ctl.DB.WithContext(c.Context()), id.UserID, "User not found")
	if err != nil {
		return helper.FromError(c, err)
	}

	var req userDTO.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	req.ApplyToModel(user)
	if req.Password != nil {
		if err := service.ValidatePasswordStrength(*req.Password); err != nil {
			return helper.FromError(c, err)
		}
		if err := user.SetPassword(*req.Password); err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
		}
	}

	if err := ctl.DB.WithContext(c.Context()).Save(user).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Profil diperbarui", fiber.Map{"user": userDTO.FromModel(user)})
}

// ChangePassword — requires the old password and revokes all refresh tokens
// so stolen sessions die with it.
func (ctl *AuthController) ChangePassword(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}

	var req authDTO.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := repository.Find[userModel.UserModel](ctl.DB.WithContext(c.Context()), id.UserID, "User not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !user.CheckPassword(req.OldPassword) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Password lama salah")
	}
	if err := service.ValidatePasswordStrength(req.NewPassword); err != nil {
		return helper.FromError(c, err)
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}

	if err := ctl.DB.WithContext(c.Context()).Save(user).Error; err != nil {
		return helper.FromError(c, err)
	}
	if err := service.RevokeAll(ctl.DB.WithContext(c.Context()), user.ID); err != nil {
		return helper.FromError(c, apperr.FromGorm(err, ""))
	}
	return helper.JsonOK(c, "Password diperbarui", nil)
}
