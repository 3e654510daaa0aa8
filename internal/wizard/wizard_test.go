package wizard

import (
	"testing"

	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCollectAnswers(t *testing.T) {
	prompts := []model.InstallPrompt{
		{Key: "claim_token", Label: "Plex Claim Token", EnvVar: "CLAIM_TOKEN"},
		{Key: "tz", Label: "Timezone", EnvVar: "TZ"},
	}

	got := CollectAnswers(prompts, []string{"claim-abc", ""}, map[string]string{"tz": "UTC", "extra": "1"})
	assert.Equal(t, map[string]string{"claim_token": "claim-abc", "tz": "", "extra": "1"}, got)
}

func TestPromptInstallWithoutPrompts(t *testing.T) {
	desc := model.NewServiceDescriptor("dns")
	preset := map[string]string{"a": "b"}

	got, err := PromptInstall(desc, preset)
	assert.NoError(t, err)
	assert.Equal(t, preset, got)
}

func TestValidateInt(t *testing.T) {
	assert.NoError(t, validateInt("1000"))
	assert.NoError(t, validateInt("-1"))
	assert.Error(t, validateInt("root"))
}
