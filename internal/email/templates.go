package email

import (
	"bytes"
	"fmt"
	htmltpl "html/template"
	"net/url"
	texttpl "text/template"
	"time"
)

type VerifyVars struct {
	UserName string
	Link     string
	TTL      string
}

const verifyHTML = `<!doctype html>
<html>
  <body style="font-family:system-ui,sans-serif;max-width:560px;margin:0 auto;padding:24px">
    <h2>Confirmá tu cuenta</h2>
    <p>Hola {{.UserName}},</p>
    <p>Para activar tu cuenta de MyGlobyX hacé clic en el botón:</p>
    <p><a href="{{.Link}}" style="background:#1a73e8;color:#fff;padding:12px 20px;border-radius:6px;text-decoration:none">Verificar email</a></p>
    <p>El enlace vence en {{.TTL}}. Si no creaste esta cuenta, ignorá este correo.</p>
  </body>
</html>`

const verifyText = `Hola {{.UserName}},

Para activar tu cuenta de MyGlobyX abrí este enlace:

{{.Link}}

El enlace vence en {{.TTL}}. Si no creaste esta cuenta, ignorá este correo.
`

var (
	verifyHTMLTmpl = htmltpl.Must(htmltpl.New("verify_html").Parse(verifyHTML))
	verifyTextTmpl = texttpl.Must(texttpl.New("verify_txt").Parse(verifyText))
)

// VerifyLink arma el link de verificación con el token url-escapeado.
func VerifyLink(baseURL, token string) string {
	return fmt.Sprintf("%s/api/auth/verify?token=%s", baseURL, url.QueryEscape(token))
}

// RenderVerify produce los cuerpos html y texto del mail de verificación.
func RenderVerify(userName, link string, ttl time.Duration) (html string, text string, err error) {
	vars := VerifyVars{UserName: userName, Link: link, TTL: ttl.String()}
	var hb, tb bytes.Buffer
	if err := verifyHTMLTmpl.Execute(&hb, vars); err != nil {
		return "", "", err
	}
	if err := verifyTextTmpl.Execute(&tb, vars); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}
