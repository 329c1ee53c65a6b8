package buildstatus

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStatusMarshalJSON(t *testing.T) {
	t.Run("empty ref omitted", func(t *testing.T) {
		status, err := NewBuilder("KEY-1", StateInProgress, "https://ci.example.com/1").Build()
		require.NoError(t, err)

		data, err := json.Marshal(status)
		require.NoError(t, err)

		assert.JSONEq(t, `{"key":"KEY-1","state":"INPROGRESS","url":"https://ci.example.com/1"}`, string(data))
	})

	t.Run("full payload", func(t *testing.T) {
		status, err := NewBuilder("KEY-1", StateSuccessful, "https://ci.example.com/1").
			Ref("refs/heads/main").
			BuildNumber("17").
			Description("nightly").
			Duration(5000).
			Name("pipeline").
			Parent("KEY").
			TestResults(TestResults{Successful: 8, Failed: 0, Skipped: 1}).
			Build()
		require.NoError(t, err)

		data, err := json.Marshal(status)
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"key": "KEY-1",
			"state": "SUCCESSFUL",
			"url": "https://ci.example.com/1",
			"ref": "refs/heads/main",
			"buildNumber": "17",
			"description": "nightly",
			"duration": 5000,
			"name": "pipeline",
			"parent": "KEY",
			"testResults": {"successful": 8, "failed": 0, "skipped": 1}
		}`, string(data))
	})

	t.Run("unmarshal restores fields", func(t *testing.T) {
		var status BuildStatus
		err := json.Unmarshal([]byte(`{
			"key": "KEY-2",
			"state": "FAILED",
			"url": "https://ci.example.com/2",
			"ref": "refs/heads/fix",
			"duration": 900
		}`), &status)
		require.NoError(t, err)

		assert.Equal(t, "KEY-2", status.Key())
		assert.Equal(t, StateFailed, status.State())
		assert.Equal(t, "https://ci.example.com/2", status.URL())
		assert.Equal(t, "refs/heads/fix", status.Ref())
		assert.Equal(t, int64(900), status.Duration())
		assert.Nil(t, status.TestResults())
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "INPROGRESS", StateInProgress.String())
	assert.Equal(t, "CANCELLED", StateCancelled.String())
}
