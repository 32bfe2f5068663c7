// internal/domain/user/address_service.go
package user

import (
	"errors"

	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

// AddressService handles address business logic
type AddressService struct {
	db     *gorm.DB
	config *config.Config
}

// NewAddressService creates a new address service
func NewAddressService(db *gorm.DB, cfg *config.Config) *AddressService {
	return &AddressService{
		db:     db,
		config: cfg,
	}
}

// CreateAddressRequest represents address creation data
type CreateAddressRequest struct {
	FullName  string `json:"full_name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	House     string `json:"house" binding:"required"`
	Street    string `json:"street"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	PinCode   string `json:"pin_code" binding:"required"`
	Country   string `json:"country"`
	IsDefault bool   `json:"is_default"`
}

// UpdateAddressRequest represents address update data
type UpdateAddressRequest struct {
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	House     *string `json:"house"`
	Street    *string `json:"street"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	PinCode   *string `json:"pin_code"`
	Country   *string `json:"country"`
	IsDefault *bool   `json:"is_default"`
}

// GetUserAddresses retrieves all addresses for a user, default first
func (s *AddressService) GetUserAddresses(userID uint) ([]Address, error) {
	var addresses []Address
	if err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error; err != nil {
		return nil, apperr.Internal(err, "failed to retrieve addresses")
	}

	return addresses, nil
}

// GetAddress retrieves a specific address for a user
func (s *AddressService) GetAddress(userID, addressID uint) (*Address, error) {
	var address Address
	result := s.db.Where("id = ? AND user_id = ?", addressID, userID).First(&address)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("address not found")
		}
		return nil, apperr.Internal(result.Error, "failed to retrieve address")
	}

	return &address, nil
}

// CreateAddress creates a new address for a user
func (s *AddressService) CreateAddress(userID uint, req *CreateAddressRequest) (*Address, error) {
	country := req.Country
	if country == "" {
		country = "India"
	}

	address := Address{
		UserID:    userID,
		FullName:  req.FullName,
		Phone:     req.Phone,
		House:     req.House,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		PinCode:   req.PinCode,
		Country:   country,
		IsDefault: req.IsDefault,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// First address for a user always becomes the default
		var count int64
		if err := tx.Model(&Address{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			address.IsDefault = true
		}

		if address.IsDefault {
			if err := s.unsetDefaultAddresses(tx, userID); err != nil {
				return err
			}
		}

		return tx.Create(&address).Error
	})
	if err != nil {
		return nil, apperr.Internal(err, "failed to create address")
	}

	return &address, nil
}

// UpdateAddress updates an existing address
func (s *AddressService) UpdateAddress(userID, addressID uint, req *UpdateAddressRequest) (*Address, error) {
	address, err := s.GetAddress(userID, addressID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.House != nil {
		updates["house"] = *req.House
	}
	if req.Street != nil {
		updates["street"] = *req.Street
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.PinCode != nil {
		updates["pin_code"] = *req.PinCode
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.IsDefault != nil {
		updates["is_default"] = *req.IsDefault
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault != nil && *req.IsDefault {
			if err := s.unsetDefaultAddresses(tx, userID); err != nil {
				return err
			}
		}
		return tx.Model(address).Updates(updates).Error
	})
	if txErr != nil {
		return nil, apperr.Internal(txErr, "failed to update address")
	}

	return s.GetAddress(userID, addressID)
}

// DeleteAddress deletes an address; if it was the default, the most
// recently created remaining address is promoted.
func (s *AddressService) DeleteAddress(userID, addressID uint) error {
	address, err := s.GetAddress(userID, addressID)
	if err != nil {
		return err
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", addressID, userID).Delete(&Address{}).Error; err != nil {
			return err
		}

		if !address.IsDefault {
			return nil
		}

		var next Address
		result := tx.Where("user_id = ?", userID).Order("created_at DESC").First(&next)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return nil
			}
			return result.Error
		}

		return tx.Model(&next).Update("is_default", true).Error
	})
	if txErr != nil {
		return apperr.Internal(txErr, "failed to delete address")
	}

	return nil
}

// SetDefaultAddress marks an address as the user's default
func (s *AddressService) SetDefaultAddress(userID, addressID uint) (*Address, error) {
	address, err := s.GetAddress(userID, addressID)
	if err != nil {
		return nil, err
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.unsetDefaultAddresses(tx, userID); err != nil {
			return err
		}
		return tx.Model(address).Update("is_default", true).Error
	})
	if txErr != nil {
		return nil, apperr.Internal(txErr, "failed to set default address")
	}

	address.IsDefault = true
	return address, nil
}

// unsetDefaultAddresses removes the default flag from all of a user's addresses
func (s *AddressService) unsetDefaultAddresses(tx *gorm.DB, userID uint) error {
	return tx.Model(&Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}
