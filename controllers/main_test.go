package controllers

import (
	"testing"

	"fashionapi/dbhelper"
	"fashionapi/test"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func setupTestServer(t *testing.T, ai AIServices) (*echo.Echo, *gorm.DB, *test.AWSProviderMock) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	cleaner()
	t.Cleanup(cleaner)
	aws := &test.AWSProviderMock{}
	e := SetupServer(
		db,
		test.GoogleServiceMock{},
		test.AppleServiceMock{AppleID: "apple-001", Email: "hidden@privaterelay.appleid.com"},
		aws,
		test.URLCacheMock{},
		ai,
		nil,
	)
	return e, db, aws
}
