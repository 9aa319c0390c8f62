// Package skills содержит чистые функции нормализации навыков и подсчета
// пересечений, на которых строятся лента и подбор партнеров.
package skills

import "strings"

// MaxSkills — максимальное количество навыков в списке профиля.
// Ограничение проверяется на уровне валидации запроса, Normalize списки
// не усекает.
const MaxSkills = 20

// Normalize приводит список навыков к каноническому виду: отбрасывает
// пустые значения, обрезает пробелы, переводит в нижний регистр и убирает
// дубликаты. Порядок первого вхождения сохраняется, побочных эффектов нет.
func Normalize(list []string) []string {
	normalized := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))

	for _, raw := range list {
		skill := strings.ToLower(strings.TrimSpace(raw))
		if skill == "" {
			continue
		}
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		normalized = append(normalized, skill)
	}

	return normalized
}

// Overlap возвращает количество навыков, которые кандидат преподает и
// которые зритель хочет изучить. Сравнение нечувствительно к регистру и
// выполняется по множествам, поэтому дубликаты не учитываются дважды.
func Overlap(teach, learn []string) int {
	teachSet := make(map[string]struct{}, len(teach))
	for _, s := range teach {
		teachSet[strings.ToLower(s)] = struct{}{}
	}

	learnSet := make(map[string]struct{}, len(learn))
	for _, s := range learn {
		learnSet[strings.ToLower(s)] = struct{}{}
	}

	count := 0
	for s := range teachSet {
		if _, ok := learnSet[s]; ok {
			count++
		}
	}

	return count
}
