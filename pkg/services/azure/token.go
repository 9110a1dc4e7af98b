package azure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// IssueToken exchanges a subscription key for a short-lived bearer token via
// the regional STS endpoint.
func IssueToken(ctx context.Context, subscriptionKey, region string) (string, error) {
	if strings.TrimSpace(subscriptionKey) == "" || strings.TrimSpace(region) == "" {
		return "", fmt.Errorf("subscription key and region are required to issue a token")
	}

	u := fmt.Sprintf("https://%s.api.cognitive.microsoft.com/sts/v1.0/issueToken", region)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, u, []byte("{}"))
	if err != nil {
		return "", err
	}
	req.Header.Set(subscriptionKeyHeader, subscriptionKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := newHTTPClient(30 * time.Second).Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed: status=%d", resp.StatusCode)
	}
	return string(body), nil
}

// ComposeAADToken formats an Entra access token for the Speech SDK when the
// resource uses identity-based auth. Multi-service resources require the
// aad#<resource-id>#<access-token> shape.
func ComposeAADToken(resourceID, accessToken string) string {
	if strings.TrimSpace(resourceID) == "" {
		return accessToken
	}
	return fmt.Sprintf("aad#%s#%s", resourceID, accessToken)
}
