package helper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcelasticsearch "github.com/testcontainers/testcontainers-go/modules/elasticsearch"
)

const elasticsearchImage = "docker.elastic.co/elasticsearch/elasticsearch:8.17.0"

// ContainerSettings are the connection settings of a started search container
type ContainerSettings struct {
	Address  string
	Username string
	Password string
	CACert   []byte
}

// MustStartElasticsearchContainer starts a single node search container with a trial
// license, so that inference endpoints can be registered
func MustStartElasticsearchContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, *ContainerSettings, error) {
	ctx := context.Background()

	container, err := tcelasticsearch.Run(
		ctx,
		elasticsearchImage,
		tcelasticsearch.WithPassword("password"),
		testcontainers.WithEnv(map[string]string{
			"xpack.license.self_generated.type": "trial",
			"xpack.ml.use_auto_machine_memory_percent": "true",
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("error starting elasticsearch container: %w", err)
	}

	settings := &ContainerSettings{
		Address:  container.Settings.Address,
		Username: "elastic",
		Password: container.Settings.Password,
		CACert:   container.Settings.CACert,
	}

	return container.Terminate, settings, nil
}

// SetTestServiceConfigEnvs points the environment configuration at a started container
func SetTestServiceConfigEnvs(t *testing.T, settings *ContainerSettings) {
	t.Setenv("ES_HOST", settings.Address)
	t.Setenv("ES_API_KEY", "")
	t.Setenv("ES_USERNAME", settings.Username)
	t.Setenv("ES_PASSWORD", settings.Password)
	t.Setenv("ES_INDEX", "countries_wiki_test")
	t.Setenv("ES_REQUEST_TIMEOUT", "600s")

	if len(settings.CACert) > 0 {
		path := filepath.Join(t.TempDir(), "ca.crt")
		if err := os.WriteFile(path, settings.CACert, 0600); err != nil {
			t.Fatalf("error writing ca certificate: %v", err)
		}
		t.Setenv("ES_CA_CERT", path)
	}
}
