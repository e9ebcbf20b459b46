package gameclient

import (
	"context"
	"fmt"
	"time"

	"github.com/blentz/artifactsmmo-sub002/internal/errtaxonomy"
	"github.com/blentz/artifactsmmo-sub002/internal/model"
	"github.com/go-resty/resty/v2"
)

// HTTPClient is the concrete GameClient, wrapping resty the way the
// teacher's internal/client.Client wraps net/http: one authenticated
// client, bearer-token header, shared timeout and retry policy.
type HTTPClient struct {
	rc             *resty.Client
	token          string
	supportsSearch bool
}

// NewHTTPClient builds an authenticated client against baseURL. token is
// the single-line bearer token read from --token-file (spec.md §6.4).
// Retries follow spec.md §5/§7: base 1s, factor 2, max 3 attempts, applied
// only to TransientNetwork-classified failures.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(Deadline).
		SetAuthToken(token).
		SetRetryCount(2). // two retries after the first try: 3 attempts in all
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(4 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	return &HTTPClient{rc: rc, token: token}
}

func (c *HTTPClient) classify(op string, resp *resty.Response, err error) error {
	if err != nil {
		return errtaxonomy.New(errtaxonomy.TransientNetwork, op, err)
	}
	if resp.IsSuccess() {
		return nil
	}
	return errtaxonomy.FromHTTPStatus(resp.StatusCode(), op, fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
}

type characterEnvelope struct {
	Data model.Character `json:"data"`
}

func (c *HTTPClient) GetCharacter(ctx context.Context, name string) (model.Character, error) {
	var env characterEnvelope
	resp, err := c.rc.R().SetContext(ctx).SetResult(&env).Get("/characters/" + name)
	if cerr := c.classify("get_character", resp, err); cerr != nil {
		return model.Character{}, cerr
	}
	return env.Data, nil
}

type charactersEnvelope struct {
	Data []model.Character `json:"data"`
}

func (c *HTTPClient) GetCharacters(ctx context.Context) ([]model.Character, error) {
	var env charactersEnvelope
	resp, err := c.rc.R().SetContext(ctx).SetResult(&env).Get("/my/characters")
	if cerr := c.classify("get_characters", resp, err); cerr != nil {
		return nil, cerr
	}
	return env.Data, nil
}

type mapEnvelope struct {
	Data model.MapTile `json:"data"`
}

func (c *HTTPClient) GetMap(ctx context.Context, x, y int) (model.MapTile, error) {
	var env mapEnvelope
	resp, err := c.rc.R().SetContext(ctx).SetResult(&env).
		SetQueryParam("x", fmt.Sprint(x)).SetQueryParam("y", fmt.Sprint(y)).
		Get("/maps")
	if cerr := c.classify("get_map", resp, err); cerr != nil {
		return model.MapTile{}, cerr
	}
	return env.Data, nil
}

type itemEnvelope struct {
	Data model.ItemRecord `json:"data"`
}

func (c *HTTPClient) GetItem(ctx context.Context, code string) (model.ItemRecord, error) {
	var env itemEnvelope
	resp, err := c.rc.R().SetContext(ctx).SetResult(&env).Get("/items/" + code)
	if cerr := c.classify("get_item", resp, err); cerr != nil {
		return model.ItemRecord{}, cerr
	}
	return env.Data, nil
}

type monsterEnvelope struct {
	Data model.MonsterRecord `json:"data"`
}

func (c *HTTPClient) GetMonster(ctx context.Context, code string) (model.MonsterRecord, error) {
	var env monsterEnvelope
	resp, err := c.rc.R().SetContext(ctx).SetResult(&env).Get("/monsters/" + code)
	if cerr := c.classify("get_monster", resp, err); cerr != nil {
		return model.MonsterRecord{}, cerr
	}
	return env.Data, nil
}

type resourceEnvelope struct {
	Data model.ResourceRecord `json:"data"`
}

func (c *HTTPClient) GetResource(ctx context.Context, code string) (model.ResourceRecord, error) {
	var env resourceEnvelope
	resp, err := c.rc.R().SetContext(ctx).SetResult(&env).Get("/resources/" + code)
	if cerr := c.classify("get_resource", resp, err); cerr != nil {
		return model.ResourceRecord{}, cerr
	}
	return env.Data, nil
}

type actionEnvelope struct {
	Data struct {
		Cooldown struct {
			RemainingSeconds float64 `json:"remaining_seconds"`
		} `json:"cooldown"`
		Character model.Character `json:"character"`
		Extra     map[string]any  `json:"-"`
	} `json:"data"`
}

func (c *HTTPClient) doAction(ctx context.Context, op, method, path string, body any) (ActionResponse, error) {
	var env actionEnvelope
	req := c.rc.R().SetContext(ctx).SetResult(&env)
	if body != nil {
		req = req.SetBody(body)
	}
	var resp *resty.Response
	var err error
	switch method {
	case "POST":
		resp, err = req.Post(path)
	default:
		resp, err = req.Get(path)
	}
	if cerr := c.classify(op, resp, err); cerr != nil {
		// Code 490 ("already at destination") is a success-equivalent per
		// spec.md 4.6; surface it distinctly so Move can special-case it.
		return ActionResponse{}, cerr
	}
	return ActionResponse{
		Character:       env.Data.Character,
		CooldownSeconds: env.Data.Cooldown.RemainingSeconds,
	}, nil
}

func (c *HTTPClient) Move(ctx context.Context, name string, x, y int) (ActionResponse, error) {
	resp, err := c.doAction(ctx, "move", "POST", "/my/"+name+"/action/move", map[string]int{"x": x, "y": y})
	if errtaxonomy.Is(err, errtaxonomy.AlreadyAtDestination) {
		return ActionResponse{CooldownSeconds: 0}, nil
	}
	return resp, err
}

func (c *HTTPClient) Attack(ctx context.Context, name string) (ActionResponse, error) {
	return c.doAction(ctx, "attack", "POST", "/my/"+name+"/action/fight", nil)
}

func (c *HTTPClient) Gather(ctx context.Context, name string) (ActionResponse, error) {
	return c.doAction(ctx, "gather", "POST", "/my/"+name+"/action/gathering", nil)
}

func (c *HTTPClient) Craft(ctx context.Context, name, code string, quantity int) (ActionResponse, error) {
	return c.doAction(ctx, "craft", "POST", "/my/"+name+"/action/crafting", map[string]any{"code": code, "quantity": quantity})
}

func (c *HTTPClient) Equip(ctx context.Context, name, code string, slot model.EquipmentSlot) (ActionResponse, error) {
	return c.doAction(ctx, "equip", "POST", "/my/"+name+"/action/equip", map[string]any{"code": code, "slot": string(slot)})
}

func (c *HTTPClient) Unequip(ctx context.Context, name string, slot model.EquipmentSlot, quantity int) (ActionResponse, error) {
	return c.doAction(ctx, "unequip", "POST", "/my/"+name+"/action/unequip", map[string]any{"slot": string(slot), "quantity": quantity})
}

func (c *HTTPClient) Rest(ctx context.Context, name string) (ActionResponse, error) {
	return c.doAction(ctx, "rest", "POST", "/my/"+name+"/action/rest", nil)
}

// CreateCharacter and DeleteCharacter are account-management calls, kept
// off the GameClient interface proper (spec.md §6.1 scopes it to gameplay
// actions only) since the core loop never needs them -- only the CLI's
// create-character/delete-character commands do.
func (c *HTTPClient) CreateCharacter(ctx context.Context, name string, skin string) (model.Character, error) {
	var env characterEnvelope
	resp, err := c.rc.R().SetContext(ctx).SetResult(&env).
		SetBody(map[string]string{"name": name, "skin": skin}).
		Post("/characters/create")
	if cerr := c.classify("create_character", resp, err); cerr != nil {
		return model.Character{}, cerr
	}
	return env.Data, nil
}

func (c *HTTPClient) DeleteCharacter(ctx context.Context, name string) error {
	resp, err := c.rc.R().SetContext(ctx).
		SetBody(map[string]string{"name": name}).
		Post("/characters/delete")
	return c.classify("delete_character", resp, err)
}

// SupportsSearch always reports false for the real API: the item search
// endpoint does not exist server-side (spec.md §9 Open Question).
func (c *HTTPClient) SupportsSearch() bool { return c.supportsSearch }

func (c *HTTPClient) SearchItems(ctx context.Context, query string) ([]model.ItemRecord, error) {
	if !c.supportsSearch {
		return nil, errtaxonomy.New(errtaxonomy.NotFound, "search_items", fmt.Errorf("search endpoint unavailable"))
	}
	var env struct {
		Data []model.ItemRecord `json:"data"`
	}
	resp, err := c.rc.R().SetContext(ctx).SetResult(&env).SetQueryParam("q", query).Get("/items/search")
	if cerr := c.classify("search_items", resp, err); cerr != nil {
		return nil, cerr
	}
	return env.Data, nil
}
