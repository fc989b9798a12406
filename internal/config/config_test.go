package config_test

import (
	"testing"
	"time"

	"github.com/okian/examprep/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8501")
			convey.So(cfg.StorageDriver, convey.ShouldEqual, config.DriverJSON)
			convey.So(cfg.DataFile, convey.ShouldEqual, "progress_data.json")
			convey.So(cfg.LLMProvider, convey.ShouldEqual, config.ProviderGroq)
			convey.So(cfg.SessionTTL(), convey.ShouldEqual, 2*time.Hour)
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.StoragePath(), convey.ShouldEqual, "progress_data.json")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the sqlite driver is selected", func() {
			cfg.StorageDriver = config.DriverSQLite

			convey.Convey("Then the sqlite path is used", func() {
				convey.So(cfg.StoragePath(), convey.ShouldEqual, "progress_data.db")
			})
		})
	})
}
