package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Game is one entry of the owned games list.
type Game struct {
	AppID int    `json:"appid"`
	Name  string `json:"name"`
	// PlaytimeForever is the total playtime in minutes.
	PlaytimeForever int64 `json:"playtime_forever"`
}

// Hours returns the total playtime in hours.
func (g Game) Hours() decimal.Decimal {
	return decimal.NewFromInt(g.PlaytimeForever).Div(decimal.NewFromInt(60))
}

// DisplayName returns the game name with parentheses turned into brackets,
// so names never collide with the "name (hours)" dump format.
func (g Game) DisplayName() string {
	if g.Name == "" {
		return "[null]"
	}
	return strings.NewReplacer("(", "[", ")", "]").Replace(g.Name)
}

type ownedGamesResponse struct {
	Response struct {
		GameCount int    `json:"game_count"`
		Games     []Game `json:"games"`
	} `json:"response"`
}

// OwnedGames lists the games of the session's account with their playtime.
// It needs the session's access token.
func (c *Client) OwnedGames(ctx context.Context) ([]Game, error) {
	if c.session.AccessToken == "" {
		return nil, ErrNoAccessToken
	}

	u := *c.apiURL
	u.Path += "/IPlayerService/GetOwnedGames/v1/"
	u.RawQuery = url.Values{
		"access_token":              {c.session.AccessToken},
		"steamid":                   {c.session.SteamID},
		"include_appinfo":           {"true"},
		"include_played_free_games": {"true"},
		"include_free_sub":          {"true"},
		"skip_unvetted_apps":        {"true"},
		"include_extended_appinfo":  {"true"},
		"language":                  {c.language},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp ownedGamesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode owned games: %w", ErrUnexpectedPage, err)
	}
	return resp.Response.Games, nil
}
