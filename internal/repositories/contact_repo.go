package repositories

import (
	"errors"
	"fmt"

	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"gorm.io/gorm"
)

type ContactRepository interface {
	FindByID(id uint64) (*models.Contact, error)
	FindByErpCode(code string) (*models.Contact, error)
	Upsert(contact *models.Contact) error
}

type CompanyRepository interface {
	FindByErpCode(code string) (*models.Company, error)
	Upsert(company *models.Company) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository 创建新的 contactRepository 实例
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) FindByID(id uint64) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.Preload("Company").Where("id = ?", id).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询联系人失败: %w", err)
	}
	return &contact, nil
}

func (r *contactRepository) FindByErpCode(code string) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.Where("erp_code = ?", code).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询联系人失败: %w", err)
	}
	return &contact, nil
}

// Upsert 按 erp_code 插入或更新，ERP 同步幂等的依据
func (r *contactRepository) Upsert(contact *models.Contact) error {
	existing, err := r.FindByErpCode(contact.ErpCode)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.Create(contact).Error
	}
	contact.ID = existing.ID
	contact.CreatedAt = existing.CreatedAt
	return r.db.Save(contact).Error
}

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository 创建新的 companyRepository 实例
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) FindByErpCode(code string) (*models.Company, error) {
	var company models.Company
	err := r.db.Where("erp_code = ?", code).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询公司失败: %w", err)
	}
	return &company, nil
}

func (r *companyRepository) Upsert(company *models.Company) error {
	existing, err := r.FindByErpCode(company.ErpCode)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.Create(company).Error
	}
	company.ID = existing.ID
	company.CreatedAt = existing.CreatedAt
	return r.db.Save(company).Error
}
