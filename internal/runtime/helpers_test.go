package runtime_test

import (
	"context"

	"github.com/aretw0/actionkit/internal/testutils"
	"github.com/aretw0/actionkit/pkg/domain"
)

type call = testutils.Call

func newRequest(format domain.Format, params domain.Params) (*domain.Request, *testutils.Recorder) {
	return testutils.NewRequest(format, params)
}

func okService(result any) domain.ServiceFunc {
	return func(context.Context, domain.Params) (any, error) {
		return result, nil
	}
}

func failingService(err error) domain.ServiceFunc {
	return func(context.Context, domain.Params) (any, error) {
		return nil, err
	}
}

func renderJSON(c *domain.Context) error {
	return c.JSON(c.Result)
}
