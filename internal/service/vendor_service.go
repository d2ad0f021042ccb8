package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"vendor-service/internal/model"
	"vendor-service/pkg/logger"
	"vendor-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VendorInput carries client-writable vendor fields; nil means "not supplied"
type VendorInput struct {
	Name           *string `json:"name"`
	ContactDetails *string `json:"contact_details"`
	Address        *string `json:"address"`
}

// VendorService manages vendors and their performance views
type VendorService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewVendorService creates a vendor service on top of db
func NewVendorService(db *gorm.DB) *VendorService {
	return &VendorService{db: db, now: time.Now}
}

func (in *VendorInput) apply(v *model.Vendor, partial bool) error {
	if !partial && in.Name == nil {
		return invalid("name: This field is required.")
	}
	if in.Name != nil {
		v.Name = strings.TrimSpace(*in.Name)
		if v.Name == "" {
			return invalid("name: This field may not be blank.")
		}
	}
	if len(v.Name) > 255 {
		return invalid("name: Ensure this field has no more than 255 characters.")
	}
	if in.ContactDetails != nil {
		v.ContactDetails = *in.ContactDetails
	} else if !partial {
		v.ContactDetails = ""
	}
	if in.Address != nil {
		v.Address = *in.Address
	} else if !partial {
		v.Address = ""
	}
	return nil
}

// Create stores a new vendor; metrics start out null
func (s *VendorService) Create(ctx context.Context, in VendorInput) (*model.Vendor, error) {
	log := logger.FromCtx(ctx)

	var vendor model.Vendor
	if err := in.apply(&vendor, false); err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := s.db.WithContext(ctx).Create(&vendor).Error; err != nil {
		log.Error("Failed to create vendor", zap.String("name", vendor.Name), zap.Error(err))
		return nil, storeErr(err, "create vendor")
	}

	log.Info("Vendor created successfully", zap.Uint("vendor_id", vendor.ID), zap.String("name", vendor.Name))
	return &vendor, nil
}

// Get returns one vendor
func (s *VendorService) Get(ctx context.Context, id uint) (*model.Vendor, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var vendor model.Vendor
	if err := s.db.WithContext(ctx).First(&vendor, id).Error; err != nil {
		return nil, storeErr(err, "get vendor")
	}
	return &vendor, nil
}

// List returns all vendors ordered by id
func (s *VendorService) List(ctx context.Context) ([]model.Vendor, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	vendors := []model.Vendor{}
	if err := s.db.WithContext(ctx).Order("id").Find(&vendors).Error; err != nil {
		return nil, storeErr(err, "list vendors")
	}
	return vendors, nil
}

// Update replaces (partial=false) or patches (partial=true) a vendor's
// client-writable fields. Metric fields are never touched here.
func (s *VendorService) Update(ctx context.Context, id uint, in VendorInput, partial bool) (*model.Vendor, error) {
	log := logger.FromCtx(ctx).With(zap.Uint("vendor_id", id))
	defer prometheus.TrackDBOperation("update")(time.Now())

	var vendor model.Vendor
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&vendor, id).Error; err != nil {
			return storeErr(err, "load vendor")
		}
		if err := in.apply(&vendor, partial); err != nil {
			return err
		}
		return storeErr(tx.Model(&vendor).Select("name", "contact_details", "address").Updates(&vendor).Error, "update vendor")
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !IsValidation(err) {
			log.Error("Failed to update vendor", zap.Error(err))
		}
		return nil, err
	}

	log.Info("Vendor updated successfully", zap.String("name", vendor.Name))
	return &vendor, nil
}

// Delete removes a vendor together with its purchase orders and history
func (s *VendorService) Delete(ctx context.Context, id uint) error {
	log := logger.FromCtx(ctx).With(zap.Uint("vendor_id", id))
	defer prometheus.TrackDBOperation("delete")(time.Now())

	var orders, snapshots int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vendor model.Vendor
		if err := tx.First(&vendor, id).Error; err != nil {
			return storeErr(err, "load vendor")
		}
		res := tx.Where("vendor_id = ?", id).Delete(&model.PurchaseOrder{})
		if res.Error != nil {
			return storeErr(res.Error, "delete vendor purchase orders")
		}
		orders = res.RowsAffected
		res = tx.Where("vendor_id = ?", id).Delete(&model.HistoricalPerformance{})
		if res.Error != nil {
			return storeErr(res.Error, "delete vendor history")
		}
		snapshots = res.RowsAffected
		return storeErr(tx.Delete(&vendor).Error, "delete vendor")
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Error("Failed to delete vendor", zap.Error(err))
		}
		return err
	}

	prometheus.ForgetVendor(id)
	log.Info("Vendor deleted successfully",
		zap.Int64("purchase_orders_deleted", orders),
		zap.Int64("history_deleted", snapshots))
	return nil
}

// Performance returns the vendor's four current metric fields
func (s *VendorService) Performance(ctx context.Context, id uint) (model.PerformanceMetrics, error) {
	vendor, err := s.Get(ctx, id)
	if err != nil {
		return model.PerformanceMetrics{}, err
	}
	return vendor.Performance(), nil
}

// History returns the vendor's snapshots, newest first
func (s *VendorService) History(ctx context.Context, id uint) ([]model.HistoricalPerformance, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	history := []model.HistoricalPerformance{}
	err := s.db.WithContext(ctx).
		Where("vendor_id = ?", id).
		Order("date desc, id desc").
		Find(&history).Error
	if err != nil {
		return nil, storeErr(err, "list vendor history")
	}
	return history, nil
}

// Snapshot appends a historical record of every vendor's current metrics
// and returns the number of rows written. Metrics that were never computed
// are recorded as zero.
func (s *VendorService) Snapshot(ctx context.Context) (int, error) {
	log := logger.FromCtx(ctx)
	at := s.now().UTC()
	defer prometheus.TrackDBOperation("insert")(time.Now())

	var written int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vendors []model.Vendor
		if err := tx.Order("id").Find(&vendors).Error; err != nil {
			return storeErr(err, "load vendors")
		}
		if len(vendors) == 0 {
			return nil
		}

		rows := make([]model.HistoricalPerformance, 0, len(vendors))
		for _, v := range vendors {
			rows = append(rows, model.HistoricalPerformance{
				VendorID:            v.ID,
				Date:                at,
				OnTimeDeliveryRate:  valueOrZero(v.OnTimeDeliveryRate),
				QualityRatingAvg:    valueOrZero(v.QualityRatingAvg),
				AverageResponseTime: valueOrZero(v.AverageResponseTime),
				FulfillmentRate:     valueOrZero(v.FulfillmentRate),
			})
		}
		if err := tx.CreateInBatches(&rows, 100).Error; err != nil {
			return storeErr(err, "write history")
		}
		written = len(rows)
		return nil
	})
	if err != nil {
		log.Error("Failed to snapshot vendor performance", zap.Error(err))
		return 0, err
	}

	prometheus.RecordSnapshots(written)
	log.Info("Vendor performance snapshot written", zap.Int("vendors", written), zap.Time("date", at))
	return written, nil
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
