// Package auth implements the OAuth authorization flow. It starts a local
// callback server, opens the provider's consent page, exchanges the returned
// code for a token, and caches the token for the API client.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"taskdeck/config"
	"taskdeck/log"
)

const (
	// CallbackAddr is the fixed redirect address; it must match the
	// redirect URI registered with the OAuth client.
	CallbackAddr = "127.0.0.1:8080"
	CallbackPath = "/callback"

	// FlowTimeout bounds how long we wait for the user to finish the
	// consent page.
	FlowTimeout = 5 * time.Minute

	tasksScope = "https://www.googleapis.com/auth/tasks"
)

type callbackResult struct {
	code  string
	state string
	err   error
}

// Login runs the full authorization flow and writes token.json.
func Login(ctx context.Context, cfg *config.Config) error {
	clientJSON, err := os.ReadFile(cfg.OAuthClient())
	if err != nil {
		return fmt.Errorf("failed to read oauth_client.json (download it from the provider's console): %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, tasksScope)
	if err != nil {
		return fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	oauthConfig.RedirectURL = "http://" + CallbackAddr + CallbackPath

	state, err := randomState()
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", CallbackAddr)
	if err != nil {
		return fmt.Errorf("failed to bind %s (is another login in progress?): %w", CallbackAddr, err)
	}
	defer listener.Close()

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if errCode := q.Get("error"); errCode != "" {
			fmt.Fprintln(w, "Authorization denied. You can close this window.")
			results <- callbackResult{err: fmt.Errorf("authorization denied: %s", errCode)}
			return
		}
		fmt.Fprintln(w, "Authorization complete. You can close this window and return to the terminal.")
		results <- callbackResult{code: q.Get("code"), state: q.Get("state")}
	})

	server := &http.Server{Handler: mux}
	go func() {
		if serveErr := server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			log.WarningLog.Printf("callback server stopped: %v", serveErr)
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Println("Opening browser for authorization...")
	fmt.Printf("If nothing opens, visit:\n\n  %s\n\n", authURL)
	openBrowser(authURL)

	ctx, cancel := context.WithTimeout(ctx, FlowTimeout)
	defer cancel()

	var result callbackResult
	select {
	case result = <-results:
	case <-ctx.Done():
		return fmt.Errorf("authorization timed out after %s", FlowTimeout)
	}
	if result.err != nil {
		return result.err
	}
	if result.state != state {
		return fmt.Errorf("authorization state mismatch")
	}
	if result.code == "" {
		return fmt.Errorf("authorization callback carried no code")
	}

	token, err := oauthConfig.Exchange(ctx, result.code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if err := saveToken(cfg.TokenPath(), token); err != nil {
		return err
	}

	fmt.Println("Authorization saved.")
	return nil
}

// Logout removes the cached token.
func Logout(cfg *config.Config) error {
	err := os.Remove(cfg.TokenPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// HasToken reports whether a cached token exists.
func HasToken(cfg *config.Config) bool {
	_, err := os.Stat(cfg.TokenPath())
	return err == nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	// The token grants account access; keep it owner-only.
	return os.WriteFile(path, data, 0o600)
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.WarningLog.Printf("failed to open browser: %v", err)
	}
}
