package users

import (
	"encoding/json"
	"log"
	"os"

	"gorm.io/gorm"

	schoolModel "schoolku_backend/internals/features/school/schools/model"
	"schoolku_backend/internals/features/users/user/model"
)

type UserSeed struct {
	UserName   string `json:"user_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	SchoolCode string `json:"school_code"`
}

func SeedUsersFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file user:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ Gagal membaca file JSON: %v", err)
	}

	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Fatalf("❌ Gagal decode JSON: %v", err)
	}

	for _, data := range inputs {
		var existing model.UserModel
		if err := db.Where("email = ?", data.Email).First(&existing).Error; err == nil {
			log.Printf("ℹ️ User dengan email '%s' sudah ada, dilewati.", data.Email)
			continue
		}

		// school_code kosong hanya untuk super_admin.
		var schoolID *uint
		if data.SchoolCode != "" {
			var school schoolModel.SchoolModel
			if err := db.Where("code = ?", data.SchoolCode).First(&school).Error; err != nil {
				log.Printf("❌ Sekolah '%s' untuk user '%s' tidak ditemukan, dilewati.", data.SchoolCode, data.Email)
				continue
			}
			schoolID = &school.ID
		}

		newUser := model.UserModel{
			UserName:  data.UserName,
			Email:     data.Email,
			Role:      data.Role,
			FirstName: data.FirstName,
			LastName:  data.LastName,
			SchoolID:  schoolID,
			IsActive:  true,
		}

		// 🔐 Hash password sebelum disimpan
		if err := newUser.SetPassword(data.Password); err != nil {
			log.Printf("❌ Gagal hash password untuk '%s': %v", data.Email, err)
			continue
		}

		if err := db.Create(&newUser).Error; err != nil {
			log.Printf("❌ Gagal insert user '%s': %v", data.Email, err)
		} else {
			log.Printf("✅ Berhasil insert user '%s'", data.Email)
		}
	}
}
