package view

import (
	"embed"
	"html/template"

	"go-gin-user-crud/internal/domain"
)

const (
	UserList     = "user/list"
	UserRegister = "user/register"
	UserUpdate   = "user/update"
	Error        = "error"
)

//go:embed templates
var files embed.FS

var funcs = template.FuncMap{
	"genders": domain.Genders,
}

// Templates 解析内嵌的全部页面，模板名即视图名
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html", "templates/user/*.html")
}

func MustTemplates() *template.Template {
	return template.Must(Templates())
}
