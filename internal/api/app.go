package api

import (
	"github.com/yourname/sleepdash/internal"
	"github.com/yourname/sleepdash/internal/service"
	"github.com/yourname/sleepdash/internal/store"
)

type App interface {
	Logger() internal.Logger
	Store() store.Store
	SleepData() *service.SleepDataService
}
