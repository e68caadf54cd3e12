package integration

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DefaultConfigSection is the admin config section owned by the Channable module
const DefaultConfigSection = "channable_marketplace"

// MaintenanceAction runs after the module's config section was saved
type MaintenanceAction interface {
	Run(ctx context.Context) error
}

// ConfigSaveObserver reacts to admin config saves for the module's section
type ConfigSaveObserver struct {
	section string
	action  MaintenanceAction
	logger  *zap.Logger
}

// NewConfigSaveObserver creates an observer for section; an empty section
// selects DefaultConfigSection.
func NewConfigSaveObserver(section string, action MaintenanceAction, logger *zap.Logger) *ConfigSaveObserver {
	if section == "" {
		section = DefaultConfigSection
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigSaveObserver{
		section: section,
		action:  action,
		logger:  logger,
	}
}

// Section returns the section the observer listens for
func (o *ConfigSaveObserver) Section() string {
	return o.section
}

// Execute runs the maintenance action when event concerns the module's section.
// It reports whether the action ran.
func (o *ConfigSaveObserver) Execute(ctx context.Context, event ConfigSaveEvent) (bool, error) {
	if event.Section != o.section {
		o.logger.Debug("Ignoring config save for other section", zap.String("section", event.Section))
		return false, nil
	}
	if err := o.action.Run(ctx); err != nil {
		return true, fmt.Errorf("config save action for section %s: %w", o.section, err)
	}
	o.logger.Info("Config save action completed",
		zap.String("section", event.Section),
		zap.Int64("store_id", event.StoreID))
	return true, nil
}

// StoreConfigRefresher is the MaintenanceAction that drops cached store settings
// so the next import reads the saved values.
type StoreConfigRefresher struct {
	configs *StoreConfigService
}

// NewStoreConfigRefresher creates a new StoreConfigRefresher
func NewStoreConfigRefresher(configs *StoreConfigService) *StoreConfigRefresher {
	return &StoreConfigRefresher{configs: configs}
}

// Run implements MaintenanceAction
func (r *StoreConfigRefresher) Run(ctx context.Context) error {
	return r.configs.InvalidateCache(ctx)
}
