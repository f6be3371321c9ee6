package service

import (
	"strings"

	"github.com/dailyfresh-next/internal/models"
	"github.com/dailyfresh-next/internal/repository"

	"gorm.io/gorm"
)

// AddressService 收货地址服务
type AddressService struct {
	addressRepo repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// AddressInput 新增地址参数
type AddressInput struct {
	Receiver string
	Addr     string
	ZipCode  string
	Phone    string
}

// List 获取用户地址列表
func (s *AddressService) List(userID uint) ([]models.Address, error) {
	if userID == 0 {
		return nil, ErrIncompleteInput
	}
	return s.addressRepo.ListByUser(userID)
}

// Create 新增收货地址。用户没有默认地址时，新地址自动设为默认。
func (s *AddressService) Create(userID uint, input AddressInput) (*models.Address, error) {
	receiver := strings.TrimSpace(input.Receiver)
	addr := strings.TrimSpace(input.Addr)
	phone := strings.TrimSpace(input.Phone)
	if userID == 0 || receiver == "" || addr == "" || phone == "" {
		return nil, ErrIncompleteInput
	}

	current, err := s.addressRepo.GetDefaultByUser(userID)
	if err != nil {
		return nil, err
	}

	address := &models.Address{
		UserID:    userID,
		Receiver:  receiver,
		Addr:      addr,
		ZipCode:   strings.TrimSpace(input.ZipCode),
		Phone:     phone,
		IsDefault: current == nil,
	}
	if err := s.addressRepo.Create(address); err != nil {
		return nil, err
	}
	return address, nil
}

// SetDefault 设置默认地址。同一用户同时只能有一个默认地址。
func (s *AddressService) SetDefault(userID, addressID uint) error {
	if userID == 0 || addressID == 0 {
		return ErrIncompleteInput
	}
	address, err := s.addressRepo.GetByIDAndUser(addressID, userID)
	if err != nil {
		return err
	}
	if address == nil {
		return ErrAddressNotFound
	}
	if address.IsDefault {
		return nil
	}

	return models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if err := repo.ClearDefault(userID); err != nil {
			return err
		}
		address.IsDefault = true
		return repo.Update(address)
	})
}

// GetDefault 获取默认地址，不存在时返回 nil
func (s *AddressService) GetDefault(userID uint) (*models.Address, error) {
	if userID == 0 {
		return nil, ErrIncompleteInput
	}
	return s.addressRepo.GetDefaultByUser(userID)
}
