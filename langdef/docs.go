/*
Package langdef converts textual grammar description to grammar.Grammar structure.

Grammar is described using a language with embedded semantic actions. Self-definition of this language is:
*/
//  set lexer = context;
//  separator space: "\s+";
//  separator comment: "#[^\n]*";
//  token code: "\{\{[\s\S]*?\}\}|\$[^$]*\$";
//  token string: "\"(?:[^\"\\]|\\[\s\S])*\"|'(?:[^'\\]|\\[\s\S])*'";
//  token number: "-?[0-9]+(?:\.[0-9]+)?";
//  token name: "[A-Za-z_][A-Za-z_0-9]*(?:-[A-Za-z_0-9]+)*";
//
//  # value is the number of rules
//  START / {{n}} -> {{n = 0}} (option | tokendef | rule {{n = n + 1}})* ;
//  option -> "set" name ("=" (name | string | number))? ";"? ;
//  tokendef -> ("token" | "separator") name ":"? string (code | name)? ";" ;
//  rule -> name params? ("/" object)? "->" alternation ";" ;
//  params -> "<" param ("," param)* ">" ;
//  param -> name (":" name)? ("=" object)? ;
//  alternation -> sequence ("\|" sequence)* ;
//  sequence -> item* ;
//  item -> atom ("\?" | "\*" | "\+" | "\{" number? ("," number?)? "\}")* ("/" name)? ;
//  atom -> "check" object | "error" object | name ("<" object ("," object)* ">")? | string
//        | "\(" alternation "\)" | code | "@" name ;
//  object -> name | number | string | code ;
/*
Description must be a valid UTF-8 text. Line breaks are insignificant, text may be a one-liner.
Description may contain line comments starting with # and ending with line feed.

String literal is any sequence of symbols delimited with either single (') or double (") quote signs.
String content is a regular expression source taken verbatim, only escaped delimiter (\" or \') is unescaped.
Regular expression syntax is the one of github.com/dlclark/regexp2 package (.NET flavour).

Name is a sequence of latin letters, digits, underscores, and inner hyphens, starting with letter or underscore.
Names are case-sensitive. Words set, token, separator, check, and error are reserved.

Code is an action delimited with {{ and }} or with dollar signs. Actions are written in expr language
(github.com/expr-lang/expr), see action package for details.

Description contains options, token and separator definitions, and rules in any order.
There must be at least one rule.

Option has a form:
   set name = value;
Value is a name, a number, or a string; missing value means true. Semicolon is optional.
Hyphens and underscores in option names are interchangeable. Known options are:
   lexer          lexer strategy: combined (default), longest, cached, cached-longest, or context;
   word_boundary  wrap literals consisting of word characters in \b anchors, default true;
   ignorecase, multiline, dotall, verbose, locale, unicode
                  regular expression flags applied to every token, may be prefixed with lexer_,
                  locale is accepted but has no effect;
   axiom          rule used by default, default is START;
   trace          log every token match;
   trace_depth    number of rule names shown in trace, default 8;
   match_timeout  regular expression match timeout, e.g. 100ms.

Token and separator definitions have a form:
   token name: "regexp" action;
   separator name: "regexp" action;
Colon and action are optional. Action computes token value from its text available as text variable;
action that is a bare name f means f(text), e.g.
   token NUM: "[0-9]+" toInt;
Token value is its text if no action is defined. Separators are matched and discarded.
Each name must be defined once, rules and tokens share the same namespace.

Definition order is important for combined strategy: lexer returns the first defined token it can match.
Longest match strategy selects the longest match, ties go to the first defined token.
Tokens synthesized from string literals in rule bodies follow explicit definitions.

Rule has a form:
   name<params> / return -> body;
Parameter list and return action are optional. Parameter has a form:
   name: type = default
where type is one of any, int, float, string, bool, list, or map, and default is an object.
Arguments are converted to parameter types, missing arguments take default values.
Rule value is the value of return action or the value of body if there is no return action.

Body is a list of alternatives separated by |. Alternatives are tried in order,
the first one that matches wins, next alternatives are not tried even if the rest of input fails to parse.
An alternative is a sequence of items, its value is the value of the last item.
An item is one of:
   name           token or rule reference, rule reference may contain arguments: name<arg, arg>;
   "regexp"       inline token, equal literals denote the same token;
   ( body )       group;
   {{ action }}   action, its value is the value of last statement;
   check object   fails the alternative unless object value is true;
   error object   aborts parsing with error message;
   @name          stores the last consumed token in name variable.
Item may be followed by repetition suffixes: ? (0 or 1 time), * (0 or more), + (1 or more),
{n} (exactly n), {n,} (n or more), {,m} (up to m), {n,m} (from n to m times).
Repetition value is a list of item values, value of ? item is the item value or nil.
Item may also be followed by /name to store its value in name variable.

Arguments, defaults, return values, check conditions, and error messages are objects: a name is a variable,
a number is a number, a string is a string (not a regexp), a code is an action.

Example:
   separator space: "\s+";
   token NUM: "[0-9]+" toInt;
   START / {{s}} -> NUM/s ("\+" NUM/x {{s = s + x}})* ;
*/
package langdef
