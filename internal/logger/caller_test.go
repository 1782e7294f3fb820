package logger

import "testing"

func TestSplitCaller(t *testing.T) {
	cases := []struct {
		file, function   string
		module, funcName string
	}{
		{"/src/internal/handler/person.go", "github.com/deppfellow/crm-api/internal/handler.(*PersonHandler).CreatePerson", "person", "CreatePerson"},
		{"/src/cmd/crm-api/serve.go", "main.runServe", "serve", "runServe"},
		{"/src/cmd/crm-api/serve.go", "main.runServe.func2", "serve", "runServe"},
		{"/src/internal/middleware/global.go", "github.com/deppfellow/crm-api/internal/middleware.(*GlobalMiddlewares).RequestLogger.func1.1", "global", "RequestLogger"},
	}

	for _, tc := range cases {
		module, fn := splitCaller(tc.file, tc.function)
		if module != tc.module || fn != tc.funcName {
			t.Errorf("splitCaller(%q, %q) = (%q, %q), want (%q, %q)",
				tc.file, tc.function, module, fn, tc.module, tc.funcName)
		}
	}
}
