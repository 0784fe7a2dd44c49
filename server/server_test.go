package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing_tool/generator"
	"listing_tool/publisher"
)

type stateBody struct {
	SessionID     string               `json:"session_id"`
	Fields        generator.Fields     `json:"fields"`
	Draft         generator.Draft      `json:"draft"`
	ImageNotes    generator.ImageNotes `json:"image_notes"`
	QualityReport string               `json:"quality_report"`
	ReportHTML    string               `json:"report_html"`
	TitleLength   int                  `json:"title_length"`
	TitleLimit    int                  `json:"title_limit"`
	CanUpdate     bool                 `json:"can_update"`
	History       []generator.Turn     `json:"history"`
	Copy          publisher.Payloads   `json:"copy"`
	Analyzed      *bool                `json:"analyzed"`
}

func newTestServer(t *testing.T, llm generator.LLMClient) *httptest.Server {
	t.Helper()
	agent, err := generator.NewAgent(llm)
	require.NoError(t, err)
	srv, err := New(agent, publisher.New(publisher.DefaultBrand), nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func decode(t *testing.T, res *http.Response) stateBody {
	t.Helper()
	var st stateBody
	require.NoError(t, json.NewDecoder(res.Body).Decode(&st))
	return st
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	res := do(t, http.MethodPost, ts.URL+"/api/sessions", nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	st := decode(t, res)
	require.NotEmpty(t, st.SessionID)
	return ts.URL + "/api/sessions/" + st.SessionID
}

func TestListingFlow(t *testing.T) {
	ts := newTestServer(t, generator.MockLLM{})
	base := createSession(t, ts)

	res := do(t, http.MethodPut, base+"/fields", map[string]string{"source": "Goldring 585 mit Zirkonia\nGröße 54"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = do(t, http.MethodPost, base+"/generate", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	st := decode(t, res)
	assert.Equal(t, "Goldring 585 mit Zirkonia", st.Draft.Title)
	assert.Equal(t, 25, st.TitleLength)
	assert.Equal(t, 80, st.TitleLimit)
	assert.True(t, st.CanUpdate)
	assert.Equal(t, "Goldring 585 mit Zirkonia\n\n"+st.Draft.Description, st.Copy.Both)
	assert.Contains(t, st.Copy.Template, "Goldring 585 mit Zirkonia")

	res = do(t, http.MethodPut, base+"/fields", map[string]string{
		"source":       "Goldring 585 mit Zirkonia\nGröße 54",
		"update_notes": "Versand aus Berlin",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	res = do(t, http.MethodPost, base+"/update", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	st = decode(t, res)
	assert.Contains(t, st.Draft.Description, "Versand aus Berlin")
	assert.Len(t, st.History, 2)

	res = do(t, http.MethodPost, base+"/quality", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	st = decode(t, res)
	assert.Equal(t, "Keine Auffälligkeiten gefunden.", st.QualityReport)
	assert.Contains(t, st.ReportHTML, "<p>Keine Auffälligkeiten gefunden.</p>")

	res = do(t, http.MethodGet, base+"/export", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", res.Header.Get("Content-Type"))
	html, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(html), `<h1 class="luxe-title">Goldring 585 mit Zirkonia</h1>`)

	res = do(t, http.MethodPost, base+"/clear", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	st = decode(t, res)
	assert.Empty(t, st.Draft.Raw)
	assert.Empty(t, st.Fields.Source)
	assert.False(t, st.CanUpdate)
}

func TestEditListing(t *testing.T) {
	ts := newTestServer(t, generator.MockLLM{})
	base := createSession(t, ts)

	do(t, http.MethodPut, base+"/fields", map[string]string{"source": "Silberkette"})
	do(t, http.MethodPost, base+"/generate", nil)

	res := do(t, http.MethodPut, base+"/fields", map[string]string{
		"source": "Silberkette",
		"title":  "Silberkette 925 <neu>",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	st := decode(t, res)
	assert.Equal(t, "Silberkette 925 <neu>", st.Draft.Title)
	assert.Equal(t, "Silberkette", st.Draft.Description)
	assert.Contains(t, st.Copy.Template, "Silberkette 925 &lt;neu&gt;")
}

func TestErrorStatus(t *testing.T) {
	ts := newTestServer(t, generator.MockLLM{})
	base := createSession(t, ts)

	res := do(t, http.MethodPost, base+"/generate", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	body, _ := io.ReadAll(res.Body)
	assert.Contains(t, string(body), "paste SOURCE first")

	res = do(t, http.MethodPost, base+"/update", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	res = do(t, http.MethodGet, ts.URL+"/api/sessions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = do(t, http.MethodPut, base+"/fields", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusPreconditionFailed, statusFor(generator.ErrMissingAPIKey))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(generator.ErrNothingToCheck))
	assert.Equal(t, http.StatusConflict, statusFor(generator.ErrBusy))
	assert.Equal(t, http.StatusBadGateway, statusFor(io.ErrUnexpectedEOF))
}

func uploadImages(t *testing.T, url string, files map[string][]byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="images"; filename="`+name+`"`)
		h.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	res, err := http.Post(url, mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func TestImageUploadCached(t *testing.T) {
	ts := newTestServer(t, generator.MockLLM{})
	base := createSession(t, ts)
	files := map[string][]byte{"ring.jpg": []byte("jpegdata")}

	res := uploadImages(t, base+"/images", files)
	require.Equal(t, http.StatusOK, res.StatusCode)
	st := decode(t, res)
	require.NotNil(t, st.Analyzed)
	assert.True(t, *st.Analyzed)
	assert.Equal(t, "- Bild ring.jpg (image/jpeg, 8 Bytes)", st.ImageNotes.Notes)
	assert.NotEmpty(t, st.ImageNotes.Fingerprint)

	res = uploadImages(t, base+"/images", files)
	require.Equal(t, http.StatusOK, res.StatusCode)
	st = decode(t, res)
	require.NotNil(t, st.Analyzed)
	assert.False(t, *st.Analyzed)
}

func TestMissingKeyIsPreconditionFailed(t *testing.T) {
	llm, err := generator.NewOpenAILLMFromConfig(&generator.LLMSettings{Model: "m", BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)
	ts := newTestServer(t, llm)
	base := createSession(t, ts)

	do(t, http.MethodPut, base+"/fields", map[string]string{"source": "ring"})
	res := do(t, http.MethodPost, base+"/generate", nil)
	assert.Equal(t, http.StatusPreconditionFailed, res.StatusCode)
}

func TestStaticIndex(t *testing.T) {
	ts := newTestServer(t, generator.MockLLM{})

	res := do(t, http.MethodGet, ts.URL+"/", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Listing Tool (DE)")
}

func TestNewRequiresAgent(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.Error(t, err)
}
