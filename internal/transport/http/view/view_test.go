package view

import (
	"bytes"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-user-crud/internal/domain"
	"go-gin-user-crud/internal/feature/user"
)

func render(t *testing.T, name string, data any) string {
	t.Helper()
	tmpl, err := Templates()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, name, data))
	return buf.String()
}

func TestUserListView(t *testing.T) {
	out := render(t, UserList, gin.H{"userlist": []domain.User{
		{ID: 1, Name: "Taro", Gender: domain.GenderMale, Age: 27, Email: "taro@x.com"},
		{ID: 3, Name: "<Hanako>", Gender: domain.GenderFemale, Age: 25, Email: "hanako@x.com"},
	}})

	assert.Contains(t, out, `name="idck" value="1"`)
	assert.Contains(t, out, `href="/user/update/3/"`)
	assert.Contains(t, out, "&lt;Hanako&gt;")
	assert.Contains(t, out, `name="deleteRun"`)
	assert.Contains(t, out, "2 user(s)")
}

func TestUserListViewEmpty(t *testing.T) {
	out := render(t, UserList, gin.H{"userlist": []domain.User(nil)})

	assert.Contains(t, out, "No users registered.")
}

func TestRegisterViewShowsErrorsAndValues(t *testing.T) {
	f := user.Form{Name: "Taro", Gender: "female", Age: "abc", Email: "nope"}
	out := render(t, UserRegister, gin.H{"user": f, "errors": user.Validate(&f)})

	assert.Contains(t, out, `action="/user/register"`)
	assert.Contains(t, out, `value="Taro"`)
	assert.Contains(t, out, `value="abc"`)
	assert.Contains(t, out, `value="female" checked`)
	assert.NotContains(t, out, `value="male" checked`)
	assert.Contains(t, out, `data-field="age"`)
	assert.Contains(t, out, `data-field="email"`)
	assert.NotContains(t, out, `data-field="name"`)
}

func TestUpdateViewPostsToOwnID(t *testing.T) {
	f := user.FromUser(&domain.User{ID: 7, Name: "Jiro", Gender: domain.GenderMale, Age: 22, Email: "jiro@x.com"})
	out := render(t, UserUpdate, gin.H{"user": f, "errors": user.FieldErrors(nil)})

	assert.Contains(t, out, `action="/user/update/7/"`)
	assert.Contains(t, out, `value="male" checked`)
	assert.NotContains(t, out, `class="error"`)
}

func TestUpdateViewWithoutUserHasNoForm(t *testing.T) {
	out := render(t, UserUpdate, gin.H{"user": user.Form{}, "errors": user.FieldErrors{}})

	assert.NotContains(t, out, "/user/update/0/")
	assert.NotContains(t, out, "<form")
	assert.NotContains(t, out, `type="submit"`)
	assert.Contains(t, out, "No user selected.")
}

func TestErrorView(t *testing.T) {
	out := render(t, Error, gin.H{"status": 404, "message": "user 9 not found"})

	assert.Contains(t, out, "<h1>404</h1>")
	assert.Contains(t, out, "user 9 not found")
}
