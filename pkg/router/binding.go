package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/campusnex/backend/pkg/xcontext"
	"github.com/gorilla/sessions"
)

func bindRequest(ctx context.Context, method string, req any) error {
	httpReq := xcontext.HTTPRequest(ctx)

	if method == http.MethodGet {
		if err := bindQuery(httpReq.URL.Query(), req); err != nil {
			return err
		}
	} else {
		err := json.NewDecoder(httpReq.Body).Decode(req)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	}

	return bindSession(ctx, req)
}

// bindQuery fills struct fields from query parameters named by their json
// tag. Only scalar fields can appear in a query.
func bindQuery(values url.Values, obj any) error {
	v := reflect.ValueOf(obj).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}

		value := values.Get(name)
		if value == "" {
			continue
		}

		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(value)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid number for query field %s: %w", name, err)
			}
			field.SetInt(n)
		case reflect.Bool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean for query field %s: %w", name, err)
			}
			field.SetBool(b)
		default:
			return fmt.Errorf("unsupported kind %s of query field %s", field.Kind(), name)
		}
	}

	return nil
}

// bindSession fills fields tagged with `session:"name"` from the browser
// session. A `session:"name,delete"` tag removes the value after reading,
// for one-shot values such as an oauth2 state.
func bindSession(ctx context.Context, obj any) error {
	v := reflect.ValueOf(obj).Elem()
	t := v.Type()

	var session *sessions.Session
	needSave := false
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("session")
		if tag == "" {
			continue
		}

		name, directive, _ := strings.Cut(tag, ",")
		if session == nil {
			var err error
			session, err = xcontext.SessionStore(ctx).Get(
				xcontext.HTTPRequest(ctx), xcontext.Configs(ctx).Session.Name)
			if err != nil {
				return err
			}
		}

		value, ok := session.Values[name]
		if ok {
			s, ok := value.(string)
			if !ok || v.Field(i).Kind() != reflect.String {
				return fmt.Errorf("unsupported type of session field %s", name)
			}

			v.Field(i).SetString(s)
		}

		if directive == "delete" {
			delete(session.Values, name)
			needSave = true
		}
	}

	if needSave {
		return session.Save(xcontext.HTTPRequest(ctx), xcontext.HTTPWriter(ctx))
	}

	return nil
}
