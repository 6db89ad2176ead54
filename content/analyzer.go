// Package content 实现基于内容的打分：目录文本的 TF-IDF 向量空间、
// 用户画像投影与余弦相似度。
package content

import (
	"strings"
	"unicode"
)

// 英文停用词表。目录文本以英文标题+简介为主，功能词不携带内容信号。
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "is": true, "it": true, "as": true,
	"be": true, "was": true, "are": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "can": true, "shall": true, "must": true, "this": true,
	"that": true, "these": true, "those": true, "i": true, "me": true, "my": true,
	"we": true, "our": true, "you": true, "your": true, "he": true, "she": true,
	"his": true, "her": true, "him": true, "they": true, "them": true, "their": true,
	"what": true, "which": true, "who": true, "whom": true, "when": true,
	"where": true, "how": true, "why": true, "not": true, "no": true, "nor": true,
	"so": true, "if": true, "then": true, "than": true, "too": true, "very": true,
	"just": true, "about": true, "also": true, "into": true, "each": true,
	"all": true, "any": true, "some": true, "more": true, "most": true,
	"other": true, "up": true, "out": true, "its": true, "only": true,
	"own": true, "same": true, "there": true, "here": true, "am": true,
	"were": true, "while": true, "during": true, "before": true, "after": true,
	"above": true, "below": true, "between": true, "through": true,
	"again": true, "further": true, "once": true, "both": true, "such": true,
	"few": true, "against": true, "off": true, "over": true, "under": true,
	"down": true, "until": true, "because": true, "now": true,
}

// Tokenize 把原始文本切分为小写的内容词：
// 按非字母数字边界切分，丢弃单字符词与停用词。
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	lower := strings.ToLower(text)
	raw := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var tokens []string
	for _, tok := range raw {
		if len(tok) < 2 || stopWords[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Analyze 产出文档的词项序列：unigram + 相邻 bigram（以空格连接）。
// bigram 在停用词过滤之后生成，与词表维度一起构成向量空间的坐标轴。
func Analyze(text string) []string {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	terms := make([]string, 0, len(tokens)*2-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}
