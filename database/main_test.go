package database

import (
	"bytes"
	"testing"

	"github.com/siherrmann/chunkcompare/helper"
	"github.com/siherrmann/chunkcompare/helper/helpertest"
	"github.com/stretchr/testify/require"
)

func initService(t *testing.T) (*helpertest.FakeService, *helper.Service, *bytes.Buffer) {
	fake := helpertest.NewFakeService(t)
	logs := &bytes.Buffer{}

	service, err := fake.NewTestService(logs)
	require.NoError(t, err, "failed to create service")

	return fake, service, logs
}
