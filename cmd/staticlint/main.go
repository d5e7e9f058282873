// Package main запускает multichecker для проекта.
//
// Состав:
//   - анализаторы go/analysis/passes (shadow, structtag, nilness, printf,
//     errorsas, lostcancel, copylock, unusedresult);
//   - все SA-анализаторы staticcheck и S1000, U1000;
//   - bodyclose (незакрытые тела HTTP-ответов);
//   - noexit (запрет os.Exit в main пакета main).
//
// Запуск:
//
//	go run ./cmd/staticlint ./...
package main

import (
	"strings"

	"github.com/timakin/bodyclose/passes/bodyclose"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"honnef.co/go/tools/staticcheck"

	"github.com/Totarae/shortener/cmd/staticlint/noexit"
)

// extraChecks - отдельные проверки staticcheck вне группы SA.
var extraChecks = map[string]bool{
	"S1000": true,
	"U1000": true,
}

func main() {
	multichecker.Main(analyzers()...)
}

func analyzers() []*analysis.Analyzer {
	list := []*analysis.Analyzer{
		shadow.Analyzer,
		structtag.Analyzer,
		nilness.Analyzer,
		printf.Analyzer,
		errorsas.Analyzer,
		lostcancel.Analyzer,
		copylock.Analyzer,
		unusedresult.Analyzer,
		bodyclose.Analyzer,
		noexit.Analyzer,
	}

	for _, a := range staticcheck.Analyzers {
		name := a.Analyzer.Name
		if strings.HasPrefix(name, "SA") || extraChecks[name] {
			list = append(list, a.Analyzer)
		}
	}
	return list
}
