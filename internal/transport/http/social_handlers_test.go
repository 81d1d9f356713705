package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestLikesStartAtZeroAndIncrement(t *testing.T) {
	env := startTestServer(t)

	resp, body := env.do(t, http.MethodGet, "/api/giveaways/summer-drop/likes", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	assertJSONEq(t, `{"giveawayId":"summer-drop","likes":0}`, string(body))

	for want := int64(1); want <= 3; want++ {
		resp, body = env.do(t, http.MethodPost, "/api/giveaways/summer-drop/likes", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("like: unexpected status %d", resp.StatusCode)
		}

		var likes LikesResponse
		if err := json.Unmarshal(body, &likes); err != nil {
			t.Fatalf("decode likes: %v", err)
		}
		if likes.Likes != want {
			t.Fatalf("likes = %d, want %d", likes.Likes, want)
		}
	}

	// Titles and ids address the same counter.
	resp, body = env.do(t, http.MethodGet, "/api/giveaways/Summer%20Drop/likes", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	assertJSONEq(t, `{"giveawayId":"summer-drop","likes":3}`, string(body))
}

func TestCommentsNewestFirst(t *testing.T) {
	env := startTestServer(t)

	resp, body := env.do(t, http.MethodGet, "/api/giveaways/drop/comments", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	assertJSONEq(t, `[]`, string(body))

	resp, body = env.do(t, http.MethodPost, "/api/giveaways/drop/comments",
		`{"userName":"ana","avatarUrl":"https://img/ana.png","content":"first"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: unexpected status %d: %s", resp.StatusCode, body)
	}

	var created CommentResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode comment: %v", err)
	}
	if created.ID == "" || created.GiveawayID != "drop" || created.UserName != "ana" ||
		created.Content != "first" || created.CreatedAt.IsZero() {
		t.Fatalf("unexpected comment: %+v", created)
	}

	resp, body = env.do(t, http.MethodPost, "/api/giveaways/drop/comments", `{"content":"  second  "}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: unexpected status %d: %s", resp.StatusCode, body)
	}

	resp, body = env.do(t, http.MethodGet, "/api/giveaways/drop/comments", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var list []CommentResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("comments = %d, want 2", len(list))
	}
	if list[0].Content != "second" || list[0].UserName != "Visitante" {
		t.Fatalf("newest comment = %+v", list[0])
	}
	if list[1].Content != "first" {
		t.Fatalf("oldest comment = %+v", list[1])
	}
}

func TestAddCommentValidation(t *testing.T) {
	env := startTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{name: "missing content", body: `{"userName":"ana"}`},
		{name: "blank content", body: `{"content":"   "}`},
		{name: "too long", body: `{"content":"` + strings.Repeat("x", 501) + `"}`},
		{name: "not json", body: `{content`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodPost, "/api/giveaways/drop/comments", tc.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}

			var errResp ErrorResponse
			if err := json.Unmarshal(body, &errResp); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if errResp.Error == "" {
				t.Fatal("expected error message")
			}
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	env := startTestServer(t)

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/health", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set(HeaderRequestID, "abc-123")

	resp, err := env.server.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("request id = %q, want abc-123", got)
	}

	resp, _ = env.do(t, http.MethodGet, "/health", "")
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Fatal("expected generated request id")
	}
}
