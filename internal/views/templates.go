package views

const tmplLayout = `
{{define "layout"}}<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} · FleetFlow</title>
<link rel="stylesheet" href="/static/app.css">
</head>
<body{{if .HasRole}} data-alert-poll="{{.AlertPollMillis}}"{{end}}>
<div id="loading" class="loading" hidden>Loading…</div>
{{if .Nav}}
<aside class="sidebar">
  <div class="brand">FleetFlow</div>
  <nav>
    {{range .Nav}}<a href="{{.Target}}" class="nav-item{{if eq .Key $.Section}} active{{end}}" data-icon="{{.Icon}}">{{.Label}}</a>
    {{end}}
  </nav>
  <div class="who">
    <div>{{.User}}</div>
    <div class="muted">{{.Role.Label}}</div>
    {{if gt (len .Roles) 1}}<a href="/login/role">Switch role</a>{{end}}
    <form method="post" action="/logout"><button type="submit" class="link">Sign out</button></form>
  </div>
</aside>
{{end}}
<main class="{{if .Nav}}with-nav{{else}}bare{{end}}">
  {{if .HasRole}}<div id="alerts" class="alerts" aria-live="polite"></div>{{end}}
  {{with .Flash}}<div class="flash flash-{{.Kind}}" role="status">{{.Message}}</div>{{end}}
  {{template "content" .}}
</main>
<script src="/static/app.js"></script>
</body>
</html>
{{end}}
`

const tmplLogin = `
{{define "content"}}
<section class="auth-card">
  <h1>FleetFlow</h1>
  <p class="muted">Sign in to the fleet console</p>
  {{if .Error}}<div class="form-error" role="alert">{{.Error}}</div>{{end}}
  <form method="post" action="/login" class="stack">
    <label>Email or username<input name="login" value="{{.Data.Login}}" required autofocus autocomplete="username"></label>
    <label>Password<input type="password" name="password" required autocomplete="current-password"></label>
    <button type="submit" class="primary">Sign in</button>
  </form>
  <p class="muted">No account? <a href="/register">Register</a></p>
</section>
{{end}}
`

const tmplRolePicker = `
{{define "content"}}
<section class="auth-card">
  <h1>Choose a role</h1>
  <p class="muted">Signed in as {{.User}}. Pick the role to work under.</p>
  {{if .Error}}<div class="form-error" role="alert">{{.Error}}</div>{{end}}
  <div class="role-grid">
    {{range .Data.Roles}}
    <form method="post" action="/login/role">
      <input type="hidden" name="role" value="{{.}}">
      <button type="submit" class="role-card{{if and $.HasRole (eq . $.Role)}} current{{end}}">{{.Label}}</button>
    </form>
    {{end}}
  </div>
  <form method="post" action="/logout"><button type="submit" class="link">Sign out</button></form>
</section>
{{end}}
`

const tmplRegister = `
{{define "content"}}
<section class="auth-card">
  <h1>Create an account</h1>
  {{if .Error}}<div class="form-error" role="alert">{{.Error}}</div>{{end}}
  <form method="post" action="/register" class="stack">
    <label>Full name<input name="name" value="{{.Data.Name}}" required></label>
    <label>Email<input type="email" name="email" value="{{.Data.Email}}" required autocomplete="email"></label>
    <label>Password<input type="password" name="password" required autocomplete="new-password"></label>
    <label>Confirm password<input type="password" name="confirm" required autocomplete="new-password"></label>
    <label>Role
      <select name="role">
        <option value="">Standard user</option>
        {{range allRoles}}<option value="{{.}}" {{selected . $.Data.Role}}>{{.Label}}</option>{{end}}
      </select>
    </label>
    <button type="submit" class="primary">Register</button>
  </form>
  <p class="muted">Already registered? <a href="/login">Sign in</a></p>
</section>
{{end}}
`
