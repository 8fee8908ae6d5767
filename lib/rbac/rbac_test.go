package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cultivation-backend/models"
)

func TestRbac(t *testing.T) {
	t.Run(`pathToRegex check`, func(t *testing.T) {
		path, method, err := parseSwaggerPattern("/api/v1/release/{id}/finalize [put]")
		require.Nil(t, err)
		require.Equal(t, PUT, method)
		r1 := pathToRegex(path)

		validUri := "/api/v1/release/123-321/finalize"
		isMatch := r1.MatchString(validUri)
		require.Equal(t, true, isMatch)

		invalidUri := "/api/v1/release/finalize"
		isMatch = r1.MatchString(invalidUri)
		require.Equal(t, false, isMatch)

		path, method, err = parseSwaggerPattern("/api/v1/release/{id}/checkpoints/{checkpointId}/complete [put]")
		require.Nil(t, err)
		require.Equal(t, PUT, method)
		r2 := pathToRegex(path)

		validUri = "/api/v1/release/123-321/checkpoints/qwe-ewr123-wr-12/complete"
		isMatch = r2.MatchString(validUri)
		require.Equal(t, true, isMatch)

		invalidUri = "/api/v1/release/we-ewr123-wr-12/checkpoints/complete"
		isMatch = r2.MatchString(invalidUri)
		require.Equal(t, false, isMatch)
	})

	t.Run(`rule lookup by role`, func(t *testing.T) {
		NewHandler()

		ruleFunc, found := Instance.GetRuleFunc("PUT", "/api/v1/release/abc-123/finalize")
		require.Equal(t, true, found)
		require.Equal(t, true, ruleFunc("f1", "u1", models.QaManagerRole, "/api/v1/release/abc-123/finalize"))
		require.Equal(t, false, ruleFunc("f1", "u1", models.QaInspectorRole, "/api/v1/release/abc-123/finalize"))

		ruleFunc, found = Instance.GetRuleFunc("PUT", "/api/v1/release/abc-123/checkpoints/cp-1/complete")
		require.Equal(t, true, found)
		require.Equal(t, true, ruleFunc("f1", "u1", models.QaInspectorRole, ""))
		require.Equal(t, false, ruleFunc("f1", "u1", models.ComplianceOfficerRole, ""))

		_, found = Instance.GetRuleFunc("DELETE", "/api/v1/release/abc-123")
		require.Equal(t, false, found)
	})
}
