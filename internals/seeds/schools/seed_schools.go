package schools

import (
	"encoding/json"
	"log"
	"os"

	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/schools/model"
)

type SchoolSeed struct {
	Name         string  `json:"name"`
	Code         string  `json:"code"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	AcademicYear string  `json:"academic_year"`
}

func SeedSchoolsFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file sekolah:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ Gagal membaca file JSON: %v", err)
	}

	var inputs []SchoolSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Fatalf("❌ Gagal decode JSON: %v", err)
	}

	for _, data := range inputs {
		var existing model.SchoolModel
		if err := db.Where("code = ?", data.Code).First(&existing).Error; err == nil {
			log.Printf("ℹ️ Sekolah dengan kode '%s' sudah ada, dilewati.", data.Code)
			continue
		}

		newSchool := model.SchoolModel{
			Name:     data.Name,
			Code:     data.Code,
			Address:  data.Address,
			City:     data.City,
			Phone:    data.Phone,
			Email:    data.Email,
			IsActive: true,
		}
		if data.AcademicYear != "" {
			newSchool.AcademicYear = data.AcademicYear
		}

		if err := db.Create(&newSchool).Error; err != nil {
			log.Printf("❌ Gagal insert sekolah '%s': %v", data.Name, err)
		} else {
			log.Printf("✅ Berhasil insert sekolah '%s'", data.Name)
		}
	}
}
